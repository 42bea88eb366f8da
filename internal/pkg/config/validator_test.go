package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "daily at 7", schedule: "0 7 * * *"},
		{name: "every 30 minutes", schedule: "*/30 * * * *"},
		{name: "weekdays", schedule: "0 8 * * 1-5"},
		{name: "empty", schedule: "", wantErr: true},
		{name: "hour out of range", schedule: "0 25 * * *", wantErr: true},
		{name: "six fields", schedule: "0 0 7 * * *", wantErr: true},
		{name: "garbage", schedule: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Asia/Kolkata"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus_Mons"))
}

func TestValidateDuration(t *testing.T) {
	assert.NoError(t, ValidateDuration(15*time.Second, time.Second, time.Minute))
	assert.NoError(t, ValidateDuration(time.Second, time.Second, time.Minute), "min is inclusive")
	assert.Error(t, ValidateDuration(0, time.Second, time.Minute))
	assert.Error(t, ValidateDuration(time.Hour, time.Second, time.Minute))
	assert.Error(t, ValidateDuration(time.Second, time.Minute, time.Second), "inverted range")
}

func TestValidateIntRange(t *testing.T) {
	for _, v := range []int{3, 5, 10} {
		assert.NoError(t, ValidateIntRange(v, 3, 10))
	}
	assert.Error(t, ValidateIntRange(2, 3, 10))
	assert.Error(t, ValidateIntRange(11, 3, 10))
	assert.Error(t, ValidateIntRange(5, 10, 3))
}

func TestValidatePositiveDuration(t *testing.T) {
	assert.NoError(t, ValidatePositiveDuration(time.Nanosecond))
	assert.Error(t, ValidatePositiveDuration(0))
	assert.Error(t, ValidatePositiveDuration(-time.Second))
}

func TestValidateOneOf(t *testing.T) {
	assert.NoError(t, ValidateOneOf("rss", "newsapi", "rss"))
	assert.Error(t, ValidateOneOf("gnews", "newsapi", "rss"))
}

func TestValidateHTTPURL(t *testing.T) {
	assert.NoError(t, ValidateHTTPURL("https://newsapi.org/v2"))
	assert.NoError(t, ValidateHTTPURL("http://localhost:8080"))
	assert.Error(t, ValidateHTTPURL("ftp://example.com"))
	assert.Error(t, ValidateHTTPURL("https://"))
	assert.Error(t, ValidateHTTPURL("::not a url"))
}
