package exercises

// DefaultCatalog is the global exercise catalog every user starts with.
func DefaultCatalog() []Exercise {
	return []Exercise{
		{Name: "Bench Press", Category: CategoryChest, MuscleGroup: "Pectorals", Equipment: EquipmentBarbell},
		{Name: "Incline Bench Press", Category: CategoryChest, MuscleGroup: "Upper Pectorals", Equipment: EquipmentBarbell},
		{Name: "Dumbbell Press", Category: CategoryChest, MuscleGroup: "Pectorals", Equipment: EquipmentDumbbell},
		{Name: "Dumbbell Flyes", Category: CategoryChest, MuscleGroup: "Pectorals", Equipment: EquipmentDumbbell},
		{Name: "Push-ups", Category: CategoryChest, MuscleGroup: "Pectorals", Equipment: EquipmentBodyweight},

		{Name: "Deadlift", Category: CategoryBack, MuscleGroup: "Erector Spinae", Equipment: EquipmentBarbell},
		{Name: "Pull-ups", Category: CategoryBack, MuscleGroup: "Latissimus Dorsi", Equipment: EquipmentBodyweight},
		{Name: "Barbell Row", Category: CategoryBack, MuscleGroup: "Latissimus Dorsi", Equipment: EquipmentBarbell},
		{Name: "Lat Pulldown", Category: CategoryBack, MuscleGroup: "Latissimus Dorsi", Equipment: EquipmentCable},
		{Name: "Seated Cable Row", Category: CategoryBack, MuscleGroup: "Middle Back", Equipment: EquipmentCable},

		{Name: "Overhead Press", Category: CategoryShoulders, MuscleGroup: "Deltoids", Equipment: EquipmentBarbell},
		{Name: "Dumbbell Shoulder Press", Category: CategoryShoulders, MuscleGroup: "Deltoids", Equipment: EquipmentDumbbell},
		{Name: "Lateral Raises", Category: CategoryShoulders, MuscleGroup: "Lateral Deltoids", Equipment: EquipmentDumbbell},
		{Name: "Front Raises", Category: CategoryShoulders, MuscleGroup: "Anterior Deltoids", Equipment: EquipmentDumbbell},
		{Name: "Face Pulls", Category: CategoryShoulders, MuscleGroup: "Rear Deltoids", Equipment: EquipmentCable},

		{Name: "Barbell Curl", Category: CategoryArms, MuscleGroup: "Biceps", Equipment: EquipmentBarbell},
		{Name: "Dumbbell Curl", Category: CategoryArms, MuscleGroup: "Biceps", Equipment: EquipmentDumbbell},
		{Name: "Hammer Curl", Category: CategoryArms, MuscleGroup: "Biceps", Equipment: EquipmentDumbbell},
		{Name: "Tricep Dips", Category: CategoryArms, MuscleGroup: "Triceps", Equipment: EquipmentBodyweight},
		{Name: "Tricep Pushdown", Category: CategoryArms, MuscleGroup: "Triceps", Equipment: EquipmentCable},

		{Name: "Squat", Category: CategoryLegs, MuscleGroup: "Quadriceps", Equipment: EquipmentBarbell},
		{Name: "Front Squat", Category: CategoryLegs, MuscleGroup: "Quadriceps", Equipment: EquipmentBarbell},
		{Name: "Romanian Deadlift", Category: CategoryLegs, MuscleGroup: "Hamstrings", Equipment: EquipmentBarbell},
		{Name: "Leg Press", Category: CategoryLegs, MuscleGroup: "Quadriceps", Equipment: EquipmentMachine},
		{Name: "Leg Curl", Category: CategoryLegs, MuscleGroup: "Hamstrings", Equipment: EquipmentMachine},
		{Name: "Calf Raises", Category: CategoryLegs, MuscleGroup: "Calves", Equipment: EquipmentMachine},

		{Name: "Plank", Category: CategoryCore, MuscleGroup: "Abs", Equipment: EquipmentBodyweight},
		{Name: "Crunches", Category: CategoryCore, MuscleGroup: "Abs", Equipment: EquipmentBodyweight},
		{Name: "Russian Twists", Category: CategoryCore, MuscleGroup: "Obliques", Equipment: EquipmentBodyweight},
		{Name: "Leg Raises", Category: CategoryCore, MuscleGroup: "Lower Abs", Equipment: EquipmentBodyweight},
	}
}
