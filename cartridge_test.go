package cartridge

import (
	"testing"
	"time"

	"github.com/nickkkcc/cartridge-go/mapper"
)

func TestDefault(t *testing.T) {
	r := Default()
	if r == nil || Default() != r {
		t.Fatal("Default should return one shared registry")
	}

	ts := time.Date(2022, 10, 25, 12, 3, 58, 0, time.UTC)
	v, err := r.Encode(ts)
	if err != nil {
		t.Fatal(err)
	}
	got, err := mapper.Decode[time.Time](r, v)
	if err != nil || !got.Equal(ts) {
		t.Errorf("round trip = %v, %v", got, err)
	}
}
