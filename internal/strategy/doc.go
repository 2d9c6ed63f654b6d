package strategy

// Package strategy wraps each download library behind one Strategy interface.
// The orchestrator walks an ordered list of strategies until one produces a
// file; Run turns every failure, including panics, into a progress message.
