package util

import "regexp"

var participantIDRegex = regexp.MustCompile(`^[0-9]{1,20}$`)

// IsValidParticipantID reports whether s looks like a platform participant
// id (a plain numeric account id).
func IsValidParticipantID(s string) bool {
	return participantIDRegex.MatchString(s)
}
