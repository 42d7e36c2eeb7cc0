package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FetchStrategy
		wantErr bool
	}{
		{name: "空值默认batched", input: "", want: StrategyBatched},
		{name: "batched", input: "batched", want: StrategyBatched},
		{name: "lazy", input: "lazy", want: StrategyLazy},
		{name: "非法值", input: "eager", wantErr: true},
		{name: "大小写敏感", input: "Lazy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStrategy)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAvgCheck(t *testing.T) {
	assert.InDelta(t, 4000.0, AvgCheck(8000, 2), 1e-9)
	assert.InDelta(t, 2666.6666, AvgCheck(8000, 3), 0.001)

	// 除零保护:订单数为0时返回0,不panic不报错
	assert.Zero(t, AvgCheck(0, 0))
	assert.Zero(t, AvgCheck(500, 0))
}

func TestReturningRatio(t *testing.T) {
	assert.InDelta(t, 50.0, ReturningRatio(1, 2), 1e-9)
	assert.InDelta(t, 100.0, ReturningRatio(3, 3), 1e-9)
	assert.InDelta(t, 33.3333, ReturningRatio(1, 3), 0.001)

	// 除零保护
	assert.Zero(t, ReturningRatio(0, 0))
}
