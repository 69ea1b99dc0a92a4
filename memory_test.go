package x86core

// testMemory is the package tests' name for the shared FlatMemory scratch
// address space (see testmemory.go).
type testMemory = FlatMemory
