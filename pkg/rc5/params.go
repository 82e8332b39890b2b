package rc5

import "fmt"

// Magic constants P_w = Odd((e-2)*2^w) and Q_w = Odd((phi-1)*2^w).
const (
	P8  uint8  = 0xB7
	Q8  uint8  = 0x9F
	P16 uint16 = 0xB7E1
	Q16 uint16 = 0x9E37
	P32 uint32 = 0xB7E15163
	Q32 uint32 = 0x9E3779B9
	P64 uint64 = 0xB7E151628AED2A6B
	Q64 uint64 = 0x9E3779B97F4A7C15
)

const (
	maxRounds = 255
	maxKeyLen = 255
)

// Params is an RC5 parameter set. The word size w is carried by W.
type Params[W Word] struct {
	Rounds int // r
	KeyLen int // b, in bytes
	P, Q   W
}

var (
	params8_12_4   = Params[uint8]{Rounds: 12, KeyLen: 4, P: P8, Q: Q8}
	params16_16_8  = Params[uint16]{Rounds: 16, KeyLen: 8, P: P16, Q: Q16}
	params32_12_16 = Params[uint32]{Rounds: 12, KeyLen: 16, P: P32, Q: Q32}
	params32_20_16 = Params[uint32]{Rounds: 20, KeyLen: 16, P: P32, Q: Q32}
	params64_24_24 = Params[uint64]{Rounds: 24, KeyLen: 24, P: P64, Q: Q64}
)

// WordSize returns w in bits.
func (p Params[W]) WordSize() int { return int(wordBits[W]()) }

// BlockSize returns the block length 2u in bytes.
func (p Params[W]) BlockSize() int { return 2 * p.WordSize() / 8 }

// ScheduleLen returns t = 2(r+1).
func (p Params[W]) ScheduleLen() int { return 2 * (p.Rounds + 1) }

// Name returns the conventional RC5-w/r/b designation.
func (p Params[W]) Name() string {
	return fmt.Sprintf("RC5-%d/%d/%d", p.WordSize(), p.Rounds, p.KeyLen)
}

// Validate checks r and b against [0, 255] and that both magic constants are odd.
func (p Params[W]) Validate() error {
	if p.Rounds < 0 || p.Rounds > maxRounds {
		return fmt.Errorf("%w: rounds %d outside [0, %d]", ErrInvalidParams, p.Rounds, maxRounds)
	}
	if p.KeyLen < 0 || p.KeyLen > maxKeyLen {
		return fmt.Errorf("%w: key length %d outside [0, %d]", ErrInvalidParams, p.KeyLen, maxKeyLen)
	}
	if p.P&1 == 0 || p.Q&1 == 0 {
		return fmt.Errorf("%w: magic constants must be odd", ErrInvalidParams)
	}
	return nil
}
