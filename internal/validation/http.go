package validation

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/pkg"
)

func WriteErrors(w http.ResponseWriter, vErrs Errors) {
	pkg.WriteJSONErrorWithFields(w, Message, vErrs.ResponseFields(), http.StatusBadRequest)
}

// DecodeJSON decodes the JSON request body into dst. On failure it writes
// a 400 validation response and returns false.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != pkg.ContentType.JSON {
		WriteErrors(w, New("Content-Type", "must be application/json"))
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Tracef("%s %s, unmarshal json body: %s", r.Method, r.URL.Path, err)
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			WriteErrors(w, New(typeErr.Field, "has invalid type, expected "+typeErr.Type.String()))
			return false
		}
		WriteErrors(w, New("body", "invalid JSON"))
		return false
	}

	return true
}
