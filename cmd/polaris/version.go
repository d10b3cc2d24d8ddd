package main

// Version is the build version, overridden at release time via
// -ldflags "-X main.Version=...".
var Version = "dev"
