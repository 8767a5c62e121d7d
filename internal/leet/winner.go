package leet

import "math/rand"

// PickWinner selects the day's winner uniformly at random from today's
// participants. The random source is injected so tests can seed it. The
// second return is false when nobody participated.
func PickWinner(rnd *rand.Rand, participants []string) (string, bool) {
	if len(participants) == 0 {
		return "", false
	}
	return participants[rnd.Intn(len(participants))], true
}
