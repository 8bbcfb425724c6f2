package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextTeamCode(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "empty set starts at one", existing: nil, want: "TEAM001"},
		{name: "sequential set", existing: []string{"TEAM001", "TEAM002", "TEAM003"}, want: "TEAM004"},
		{name: "gaps use the highest suffix", existing: []string{"TEAM001", "TEAM007"}, want: "TEAM008"},
		{name: "foreign codes are ignored", existing: []string{"LEGACY-9", "TEAM002", ""}, want: "TEAM003"},
		{name: "wide suffix is not truncated", existing: []string{"TEAM1000"}, want: "TEAM1001"},
		{name: "whitespace is tolerated", existing: []string{" TEAM005 "}, want: "TEAM006"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextTeamCode(tt.existing))
		})
	}
}

func TestFallbackTeamCode(t *testing.T) {
	now := time.Unix(1718000123, 0)
	assert.Equal(t, "TEAM0123", FallbackTeamCode(now))
	assert.True(t, ValidTeamCode(FallbackTeamCode(now)))
}

func TestValidTeamCode(t *testing.T) {
	assert.True(t, ValidTeamCode("TEAM001"))
	assert.True(t, ValidTeamCode("TEAM1234"))
	assert.False(t, ValidTeamCode("TEAM"))
	assert.False(t, ValidTeamCode("team001"))
	assert.False(t, ValidTeamCode("TEAM001X"))
}

func TestSortTeamCodes(t *testing.T) {
	codes := []string{"TEAM010", "LEGACY", "TEAM002", "TEAM001"}
	SortTeamCodes(codes)
	assert.Equal(t, []string{"TEAM001", "TEAM002", "TEAM010", "LEGACY"}, codes)
}
