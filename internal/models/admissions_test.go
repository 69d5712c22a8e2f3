package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionApplication(t *testing.T) {
	allowed := [][2]string{
		{ApplicationSubmitted, ApplicationUnderReview},
		{ApplicationUnderReview, ApplicationAccepted},
		{ApplicationUnderReview, ApplicationRejected},
		{ApplicationUnderReview, ApplicationWaitlisted},
		{ApplicationWaitlisted, ApplicationAccepted},
		{ApplicationWaitlisted, ApplicationRejected},
	}
	for _, pair := range allowed {
		assert.NoError(t, CanTransitionApplication(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}

	denied := [][2]string{
		{ApplicationSubmitted, ApplicationAccepted}, // must pass review first
		{ApplicationAccepted, ApplicationRejected},  // terminal
		{ApplicationRejected, ApplicationAccepted},  // terminal
		{ApplicationUnderReview, ApplicationSubmitted},
		{ApplicationWaitlisted, ApplicationUnderReview},
		{"", ApplicationUnderReview},
	}
	for _, pair := range denied {
		assert.Error(t, CanTransitionApplication(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}
