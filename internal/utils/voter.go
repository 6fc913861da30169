package utils

import (
	"strings"
)

// The voters column stores the set of user IDs that currently hold a vote on
// an idea, joined with commas. NULL means nobody voted; an empty string is
// never written.

// DecodeVoters converts the stored column value to a list of user IDs.
func DecodeVoters(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	parts := strings.Split(*raw, ",")
	voters := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			voters = append(voters, p)
		}
	}
	return voters
}

// EncodeVoters converts a list of user IDs back to the column value.
// The empty set encodes to nil so the column stays NULL.
func EncodeVoters(voters []string) *string {
	if len(voters) == 0 {
		return nil
	}
	s := strings.Join(voters, ",")
	return &s
}
