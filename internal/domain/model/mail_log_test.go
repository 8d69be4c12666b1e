package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailStatus_Valid(t *testing.T) {
	for _, s := range []MailStatus{MailStatusSent, MailStatusFailed, MailStatusSkipped} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, MailStatus("bounced").Valid())
	assert.False(t, MailStatus("").Valid())
}

func TestAlertSubject_ZeroMatches(t *testing.T) {
	assert.Equal(t, `0 new tenders match "Roads"`, AlertSubject(0, "Roads"))
}
