package game

const (
	// BaseAttempts is the attempt ceiling before any invite bonus.
	BaseAttempts = 3

	// winBasePoints is awarded for any correct guess.
	winBasePoints = 10
	// firstTryMultiplier scales the award when the first guess lands.
	firstTryMultiplier = 2

	// authorPointsPerFailedGuess feeds the derived author earnings; the value
	// is never persisted as a running total.
	authorPointsPerFailedGuess = 5

	// inviteCompletionPoints credits the inviter when the invited friend wins.
	inviteCompletionPoints = 2
)

// WinPoints computes the award for a correct guess on the given 1-based attempt.
func WinPoints(attemptNumber int) int {
	if attemptNumber == 1 {
		return winBasePoints * firstTryMultiplier
	}
	return winBasePoints
}
