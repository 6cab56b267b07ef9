package display

// Exercise types known to the analysis service.
const (
	ExerciseBicepCurl       = "bicepCurl"
	ExerciseSquat           = "squat"
	ExercisePushup          = "pushup"
	ExerciseShoulderPress   = "shoulderPress"
	ExerciseTricepExtension = "tricepExtension"
	ExerciseLunge           = "lunge"
)

// DefaultExercise is the exercise a fresh session starts with.
const DefaultExercise = ExerciseBicepCurl

// Exercises lists the supported exercise types in display order.
var Exercises = []string{
	ExerciseBicepCurl,
	ExerciseSquat,
	ExercisePushup,
	ExerciseShoulderPress,
	ExerciseTricepExtension,
	ExerciseLunge,
}

// KnownExercise reports whether t is a supported exercise type.
func KnownExercise(t string) bool {
	for _, e := range Exercises {
		if e == t {
			return true
		}
	}
	return false
}
