package util

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "calendar day", input: `"2024-03-15"`, want: NewDate(2024, time.March, 15)},
		{name: "rfc3339", input: `"2024-03-15T10:30:00Z"`, want: Date{time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)}},
		{name: "null", input: `null`},
		{name: "empty", input: `""`},
		{name: "garbage", input: `"15/03/2024"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d), "got %v want %v", d, tt.want)
		})
	}
}

func TestDateMarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, time.March, 5))
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-05"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(b))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-03-05 00:00:00+00:00"))
	assert.True(t, NewDate(2024, time.March, 5).Equal(d))

	require.NoError(t, d.Scan([]byte("2024-12-31")))
	assert.True(t, NewDate(2024, time.December, 31).Equal(d))

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}
