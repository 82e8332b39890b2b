package rc5

// expandKey derives the t = 2(r+1) word schedule S from key. The caller has
// already checked len(key) == p.KeyLen.
func expandKey[W Word](p Params[W], key []byte) []W {
	w := wordBits[W]()
	u := int(w / 8)
	b := len(key)

	// L holds exactly c = ceil(max(b,1)/u) words. The reference source sized
	// it as b-1, which only happens to be large enough for the standard
	// presets; c is what the RC5 paper specifies.
	c := (max(b, 1) + u - 1) / u
	l := make([]W, c)
	for i := b - 1; i >= 0; i-- {
		l[i/u] = rotl(l[i/u], 8, w) + W(key[i])
	}

	t := p.ScheduleLen()
	s := make([]W, t)
	s[0] = p.P
	for i := 1; i < t; i++ {
		s[i] = s[i-1] + p.Q
	}

	var a, bb W
	i, j := 0, 0
	for k := 3 * max(t, c); k > 0; k-- {
		s[i] = rotl(s[i]+a+bb, 3, w)
		a = s[i]
		l[j] = rotl(l[j]+a+bb, a+bb, w)
		bb = l[j]
		i = (i + 1) % t
		j = (j + 1) % c
	}

	clear(l)
	return s
}
