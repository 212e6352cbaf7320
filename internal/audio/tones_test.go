package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/vovakirdan/tui-derby/internal/race"
)

func TestSamplesAreBoundedStereoFrames(t *testing.T) {
	cues := []race.Cue{
		race.CueStrike, race.CueCelebration, race.CueCollision, race.CueLand,
		race.CueCountdown, race.CueGo, race.CueBoost, race.CueHoof,
	}
	for _, c := range cues {
		t.Run(c.String(), func(t *testing.T) {
			data := Samples(c)
			if len(data) == 0 {
				t.Fatal("no samples")
			}
			if len(data)%frameBytes != 0 {
				t.Fatalf("len = %d, not a whole number of frames", len(data))
			}
			for i := 0; i < len(data); i += 4 {
				v := math.Float32frombits(binary.LittleEndian.Uint32(data[i:]))
				if math.IsNaN(float64(v)) || v < -1 || v > 1 {
					t.Fatalf("sample %d = %v, out of [-1,1]", i/4, v)
				}
			}
			left := binary.LittleEndian.Uint32(data[frameBytes*10:])
			right := binary.LittleEndian.Uint32(data[frameBytes*10+4:])
			if left != right {
				t.Errorf("frame 10 channels differ: %x vs %x", left, right)
			}
		})
	}
}

func TestHoofIsShorterThanGo(t *testing.T) {
	if len(Samples(race.CueHoof)) >= len(Samples(race.CueGo)) {
		t.Error("hoof click should be shorter than the go beep")
	}
}

func TestUnknownCueIsSilent(t *testing.T) {
	if data := Samples(race.Cue(99)); data != nil {
		t.Errorf("Samples(99) = %d bytes, want nil", len(data))
	}
}

func TestAdsrShape(t *testing.T) {
	tests := []struct {
		p, want float64
	}{
		{0, 0},
		{0.05, 0.5},
		{0.1, 1},
		{0.5, 0.6},
		{1, 0},
	}
	for _, tt := range tests {
		got := adsr(tt.p, 0.1, 0.2, 0.6, 0.2)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("adsr(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
