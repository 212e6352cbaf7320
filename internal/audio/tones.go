package audio

import (
	"encoding/binary"
	"math"

	"github.com/vovakirdan/tui-derby/internal/race"
)

// Output format: stereo float32 little-endian.
const (
	SampleRate   = 44100
	ChannelCount = 2
	frameBytes   = 8
)

// Samples renders the PCM data for c. Unknown cues render to nil.
func Samples(c race.Cue) []byte {
	switch c {
	case race.CueStrike:
		return genStrike()
	case race.CueCelebration:
		return genCelebration()
	case race.CueCollision:
		return genCollision()
	case race.CueLand:
		return genLand()
	case race.CueCountdown:
		return genBeep(440, 0.15)
	case race.CueGo:
		return genBeep(880, 0.35)
	case race.CueBoost:
		return genBoost()
	case race.CueHoof:
		return genHoof()
	default:
		return nil
	}
}

// putStereoF32 writes a [-1,1] sample to both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	for ch := 0; ch < ChannelCount; ch++ {
		o := i*frameBytes + ch*4
		binary.LittleEndian.PutUint32(buf[o:o+4], v)
	}
}

func makeBuf(seconds float64) ([]byte, int) {
	n := int(seconds * SampleRate)
	return make([]byte, n*frameBytes), n
}

// softSat keeps a sample inside [-1,1] with a gentle knee.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/x
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

func genBeep(freq, seconds float64) []byte {
	buf, n := makeBuf(seconds)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		env := adsr(float64(i)/float64(n), 0.02, 0.1, 0.7, 0.2)
		putStereoF32(buf, i, softSat(math.Sin(2*math.Pi*freq*t)*env*0.5))
	}
	return buf
}

// genStrike is a noise crack over a falling thump.
func genStrike() []byte {
	buf, n := makeBuf(0.6)
	seed := uint64(424242)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		crack := lcg(&seed) * math.Exp(-p*9)
		thump := fm(t, 60-30*p, 0.5, 2) * math.Exp(-p*4)
		putStereoF32(buf, i, softSat((crack*0.6+thump*0.6)*0.8))
	}
	return buf
}

// genCelebration is a rising major arpeggio.
func genCelebration() []byte {
	notes := []float64{523.25, 659.25, 783.99, 1046.5}
	buf, n := makeBuf(0.6)
	step := n / len(notes)
	for i := 0; i < n; i++ {
		k := min(i/step, len(notes)-1)
		t := float64(i) / SampleRate
		env := adsr(float64(i%step)/float64(step), 0.05, 0.3, 0.5, 0.2)
		s := fm(t, notes[k], 2.0, 2.5*env) * env * 0.4
		putStereoF32(buf, i, softSat(s))
	}
	return buf
}

func genCollision() []byte {
	buf, n := makeBuf(0.22)
	seed := uint64(777)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		lp = lp*0.85 + lcg(&seed)*0.15
		thud := fm(t, 90, 0.5, 1.5) * math.Exp(-p*12)
		putStereoF32(buf, i, softSat((lp*0.5+thud*0.7)*math.Exp(-p*5)))
	}
	return buf
}

func genLand() []byte {
	buf, n := makeBuf(0.1)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		p := float64(i) / float64(n)
		putStereoF32(buf, i, softSat(math.Sin(2*math.Pi*70*t)*math.Exp(-p*10)*0.6))
	}
	return buf
}

// genBoost is an upward sweep.
func genBoost() []byte {
	buf, n := makeBuf(0.25)
	phase := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		freq := 300 + 900*p*p
		phase += 2 * math.Pi * freq / SampleRate
		env := adsr(p, 0.05, 0.2, 0.6, 0.3)
		putStereoF32(buf, i, softSat(math.Sin(phase)*env*0.35))
	}
	return buf
}

// genHoof is a short filtered click.
func genHoof() []byte {
	buf, n := makeBuf(0.04)
	seed := uint64(31337)
	lp := 0.0
	for i := 0; i < n; i++ {
		p := float64(i) / float64(n)
		lp = lp*0.7 + lcg(&seed)*0.3
		putStereoF32(buf, i, softSat(lp*math.Exp(-p*8)*0.4))
	}
	return buf
}
