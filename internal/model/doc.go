package model

// Package model defines domain data structures shared by the pipeline and both
// front ends: download requests, results, progress events and the pipeline
// stage enum. Values are transient and never persisted.
