// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrTestSuite is the sentinel error wrapped by SafetyError.
var ErrTestSuite = errors.New("refusing to run the test suite against live data")

// testSuitePattern matches command lines that run a test suite: bare rake
// (its default task is usually the tests), rake with a test-ish task, and the
// testrb, rspec and cucumber runners, optionally behind "bundle exec " or "bin/".
//
// Other rake tasks are not matched: "rake db:version" and "rake db:migrate"
// are the usual reason to run against live config. A pattern with the rake
// task group made optional would refuse every rake invocation.
var testSuitePattern = regexp.MustCompile(
	`^(bundle exec |bin/)?(rake(\s*$|\s.*\b(test|spec|cucumber|features)\b)|testrb\b|rspec\b|cucumber\b)`,
)

// SafetyError is returned when a command line looks like a test-suite run.
type SafetyError struct {
	Line string
}

// Error implements the error interface.
func (e *SafetyError) Error() string {
	return fmt.Sprintf("%v: %s", ErrTestSuite, e.Line)
}

// Unwrap returns ErrTestSuite for errors.Is checks.
func (e *SafetyError) Unwrap() error { return ErrTestSuite }

// IsTestSuite reports whether line, after leading whitespace, runs a test suite.
func IsTestSuite(line string) bool {
	return testSuitePattern.MatchString(strings.TrimLeft(line, " \t\r\n\v\f"))
}

// CheckSafe returns a SafetyError when line runs a test suite.
func CheckSafe(line string) error {
	if IsTestSuite(line) {
		return &SafetyError{Line: line}
	}
	return nil
}
