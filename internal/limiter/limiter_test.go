package limiter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/record"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{name: "zero", cfg: Config{}},
		{name: "limit and offset", cfg: Config{Limit: 10, Offset: 5}},
		{name: "tail with offset", cfg: Config{Tail: 10, Offset: 5}},
		{name: "limit with tail", cfg: Config{Limit: 10, Tail: 5}, errMsg: "mutually exclusive"},
		{name: "negative limit", cfg: Config{Limit: -1}, errMsg: "--limit must be non-negative"},
		{name: "negative offset", cfg: Config{Offset: -1}, errMsg: "--offset must be non-negative"},
		{name: "negative tail", cfg: Config{Tail: -1}, errMsg: "--tail must be non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestBounds(t *testing.T) {
	start, end := Config{Offset: 2, Limit: 2}.Bounds(3)
	assert.Equal(t, [2]int{2, 3}, [2]int{start, end})
	start, end = Config{Tail: 5}.Bounds(3)
	assert.Equal(t, [2]int{0, 3}, [2]int{start, end})
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.False(t, Config{}.IsActive())
}

func TestApply(t *testing.T) {
	ids := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"limit only", Config{Limit: 3}, []string{"1", "2", "3"}},
		{"offset only", Config{Offset: 5}, []string{"6", "7", "8", "9", "10"}},
		{"limit and offset", Config{Limit: 3, Offset: 2}, []string{"3", "4", "5"}},
		{"tail only", Config{Tail: 3}, []string{"8", "9", "10"}},
		{"tail ignores offset", Config{Tail: 3, Offset: 5}, []string{"8", "9", "10"}},
		{"offset larger than list", Config{Offset: 20}, []string{}},
		{"offset equals list length", Config{Offset: 10}, []string{}},
		{"limit larger than remaining", Config{Limit: 100, Offset: 5}, []string{"6", "7", "8", "9", "10"}},
		{"tail larger than list", Config{Tail: 100}, ids},
		{"inactive", Config{}, ids},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(tt.cfg, ids))
		})
	}
}

func TestApplyRecords(t *testing.T) {
	recs := []record.Record{{"id": 1}, {"id": 2}, {"id": 3}}
	assert.Equal(t, []record.Record{{"id": 2}}, Apply(Config{Offset: 1, Limit: 1}, recs))
	assert.Empty(t, Apply(Config{Limit: 5}, []record.Record{}))
	assert.Nil(t, Apply(Config{}, []record.Record(nil)))
}

func TestFromQuery(t *testing.T) {
	cfg, err := FromQuery(url.Values{"limit": {"2"}, "offset": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, Config{Limit: 2, Offset: 1}, cfg)

	cfg, err = FromQuery(url.Values{})
	require.NoError(t, err)
	assert.False(t, cfg.IsActive())

	_, err = FromQuery(url.Values{"tail": {"many"}})
	assert.ErrorContains(t, err, "not a number")

	_, err = FromQuery(url.Values{"limit": {"2"}, "tail": {"1"}})
	assert.ErrorContains(t, err, "mutually exclusive")
}
