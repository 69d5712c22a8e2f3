package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAttendanceStatus(t *testing.T) {
	for _, s := range []string{AttendancePresent, AttendanceAbsent, AttendanceLate, AttendanceExcused} {
		assert.NoError(t, ValidAttendanceStatus(s))
	}
	assert.Error(t, ValidAttendanceStatus("present"))
	assert.Error(t, ValidAttendanceStatus("SICK"))
	assert.Error(t, ValidAttendanceStatus(""))
}
