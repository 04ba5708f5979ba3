// Package main provides the acsdex CLI application.
// acsdex builds the patient-level analytic record used for acute
// coronary syndrome research from a stream of hospital episode rows.
package main

import "os"

func main() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
