// SPDX-License-Identifier: MPL-2.0

// Package checkout brings the local git working tree to the commit a
// release was built from, fetching from the application's git remote when
// the commit is not yet present locally. It also derives the application
// name from a local git remote when none is given explicitly.
package checkout
