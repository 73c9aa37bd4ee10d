package protocol

import "fmt"

// InjectionPair is one current injection: current is sourced at Injection and returns
// through Ground. Electrodes are numbered from 1.
type InjectionPair struct {
	Injection uint8
	Ground    uint8
}

// InjectionPairs returns one pair per electrode, in injection order 1..nEl. The ground
// electrode sits skip+1 positions ahead of the injection electrode around the ring.
func InjectionPairs(nEl, skip int) ([]InjectionPair, error) {
	if nEl < 1 || nEl > 255 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidElectrodeCount, nEl)
	}
	if skip < 0 || skip >= nEl {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidInjectionSkip, skip, nEl)
	}

	offset := skip + 1
	if offset%nEl == 0 {
		return nil, fmt.Errorf("%w: skip %d makes every electrode its own ground", ErrInvalidInjectionSkip, skip)
	}

	pairs := make([]InjectionPair, nEl)
	for v := 1; v <= nEl; v++ {
		pairs[v-1] = InjectionPair{
			Injection: uint8(v),
			Ground:    uint8((v-1+offset)%nEl + 1),
		}
	}
	return pairs, nil
}
