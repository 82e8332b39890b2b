package rc5

// Cipher8_12_4 is RC5 with 8-bit words, 12 rounds and a 4-byte key.
type Cipher8_12_4 struct{ Cipher[uint8] }

// Cipher16_16_8 is RC5 with 16-bit words, 16 rounds and an 8-byte key.
type Cipher16_16_8 struct{ Cipher[uint16] }

// Cipher32_12_16 is RC5 with 32-bit words, 12 rounds and a 16-byte key, the
// variant Rivest published test vectors for.
type Cipher32_12_16 struct{ Cipher[uint32] }

// Cipher32_20_16 is RC5 with 32-bit words, 20 rounds and a 16-byte key.
type Cipher32_20_16 struct{ Cipher[uint32] }

// Cipher64_24_24 is RC5 with 64-bit words, 24 rounds and a 24-byte key.
type Cipher64_24_24 struct{ Cipher[uint64] }

// New8_12_4 returns an RC5-8/12/4 cipher. key must be 4 bytes.
func New8_12_4(key []byte) (*Cipher8_12_4, error) {
	c, err := newCipher(params8_12_4, key)
	if err != nil {
		return nil, err
	}
	return &Cipher8_12_4{*c}, nil
}

// New16_16_8 returns an RC5-16/16/8 cipher. key must be 8 bytes.
func New16_16_8(key []byte) (*Cipher16_16_8, error) {
	c, err := newCipher(params16_16_8, key)
	if err != nil {
		return nil, err
	}
	return &Cipher16_16_8{*c}, nil
}

// New32_12_16 returns an RC5-32/12/16 cipher. key must be 16 bytes.
func New32_12_16(key []byte) (*Cipher32_12_16, error) {
	c, err := newCipher(params32_12_16, key)
	if err != nil {
		return nil, err
	}
	return &Cipher32_12_16{*c}, nil
}

// New32_20_16 returns an RC5-32/20/16 cipher. key must be 16 bytes.
func New32_20_16(key []byte) (*Cipher32_20_16, error) {
	c, err := newCipher(params32_20_16, key)
	if err != nil {
		return nil, err
	}
	return &Cipher32_20_16{*c}, nil
}

// New64_24_24 returns an RC5-64/24/24 cipher. key must be 24 bytes.
func New64_24_24(key []byte) (*Cipher64_24_24, error) {
	c, err := newCipher(params64_24_24, key)
	if err != nil {
		return nil, err
	}
	return &Cipher64_24_24{*c}, nil
}
