// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	MissingCommandId Id = iota + 1
	InvalidOverrideId
	AppNotDetectedId
	MissingTokenId
	ReleaseNotFoundId
	APIUnreachableId
	APIResponseInvalidId
	TestSuiteRefusedId
	CheckoutFailedId
	ConfigLoadFailedId
	ShellNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // platform documentation relevant to the issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	missingCommandIssue = &Issue{
		id: MissingCommandId,
		mdMsg: `
# No command given!

Surrogate needs a command to run against the release's configuration.

## Usage
~~~
$ surrogate [flags] [KEY=VALUE ...] COMMAND [ARGS...]
~~~

## Examples
~~~
$ surrogate -a myapp bin/rails console
$ surrogate -a myapp PORT=3000 web
$ surrogate -a myapp -r v42 --checkout bin/rake db:migrate
~~~`,
	}

	invalidOverrideIssue = &Issue{
		id: InvalidOverrideId,
		mdMsg: `
# Invalid environment override!

Leading ` + "`KEY=VALUE`" + ` arguments override the release's config vars, but the
key must not be empty.

## Things you can try:
- Write the override as ` + "`NAME=value`" + `
- If the command itself starts with ` + "`=`" + `, put it behind a shell:
~~~
$ surrogate -a myapp sh -c '=something'
~~~`,
	}

	appNotDetectedIssue = &Issue{
		id: AppNotDetectedId,
		mdMsg: `
# Could not tell which app to use!

No ` + "`--app`" + ` flag was given and the configured git remote does not point at a
platform app.

## Things you can try:
- Pass the app explicitly:
~~~
$ surrogate --app myapp bin/rails console
~~~
- Add the platform remote to this repository:
~~~
$ git remote add heroku https://git.heroku.com/myapp.git
~~~
- Point ` + "`git.remote`" + ` in your config (or ` + "`SURROGATE_GIT_REMOTE`" + `) at the right remote`,
	}

	missingTokenIssue = &Issue{
		id: MissingTokenId,
		mdMsg: `
# No API token!

Surrogate reads the platform API token from the environment or its config file.

## Things you can try:
- Export the token from the platform CLI:
~~~
$ export HEROKU_API_KEY=$(heroku auth:token)
~~~
- Or set ` + "`SURROGATE_API_TOKEN`" + `
- Or add ` + "`api: token: \"...\"`" + ` to your config file`,
		docLinks: []HttpLink{"https://devcenter.heroku.com/articles/authentication"},
	}

	releaseNotFoundIssue = &Issue{
		id: ReleaseNotFoundId,
		mdMsg: `
# Release not found!

The platform API returned no release for the requested app.

## Things you can try:
- Check the app name, and that your token can access it
- List the app's releases:
~~~
$ heroku releases -a myapp
~~~
- Pass a release by id or version with ` + "`--release`" + `, or omit it to use the latest`,
		docLinks: []HttpLink{"https://devcenter.heroku.com/articles/releases"},
	}

	apiUnreachableIssue = &Issue{
		id: APIUnreachableId,
		mdMsg: `
# Could not reach the platform API!

The request failed before a response arrived, or timed out.

## Things you can try:
- Check your network connection and proxy settings
- Check ` + "`api.url`" + ` in your config
- Raise ` + "`api.timeout`" + ` (e.g. ` + "`SURROGATE_API_TIMEOUT=1m`" + `)`,
		extLinks: []HttpLink{"https://status.heroku.com"},
	}

	apiResponseInvalidIssue = &Issue{
		id: APIResponseInvalidId,
		mdMsg: `
# Unexpected response from the platform API!

The API answered with an error status or a body that could not be decoded.

## Things you can try:
- Verify your API token is valid and not expired
- Verify ` + "`api.url`" + ` points at the platform API, not a web page
- Re-run with ` + "`--verbose`" + ` to see the full error chain`,
		docLinks: []HttpLink{"https://devcenter.heroku.com/articles/platform-api-reference"},
	}

	testSuiteRefusedIssue = &Issue{
		id: TestSuiteRefusedId,
		mdMsg: `
# Refusing to run the test suite!

Test suites usually reset or truncate their database. Running one against a
release's configuration would point it at live data.

## Things you can try:
- Run the tests locally against a development database
- Run a specific task instead, e.g. ` + "`bin/rake db:migrate`",
	}

	checkoutFailedIssue = &Issue{
		id: CheckoutFailedId,
		mdMsg: `
# Could not check out the release commit!

` + "`--checkout`" + ` switches the working tree to the commit the release was built
from before running the command.

## Things you can try:
- Commit or stash local changes that block the checkout
- Make sure this is a clone of the app's repository
- Fetch the app's history:
~~~
$ git fetch heroku
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the config file for CUE syntax errors
- Compare it with the defaults:
~~~cue
api: {
	url:     "https://api.heroku.com"
	timeout: "30s"
}
git: remote:    "heroku"
exec: runtime:  "native"
~~~
- Check ` + "`SURROGATE_*`" + ` environment variables for invalid values`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Could not start the shell!

The command line is handed to ` + "`exec.shell`" + ` (default ` + "`/bin/sh`" + `).

## Things you can try:
- Set ` + "`exec.shell`" + ` to a shell that exists on this machine
- Use the embedded interpreter instead:
~~~
$ surrogate --virtual -a myapp bin/rails console
~~~`,
	}

	issues = map[Id]*Issue{
		missingCommandIssue.Id():     missingCommandIssue,
		invalidOverrideIssue.Id():    invalidOverrideIssue,
		appNotDetectedIssue.Id():     appNotDetectedIssue,
		missingTokenIssue.Id():       missingTokenIssue,
		releaseNotFoundIssue.Id():    releaseNotFoundIssue,
		apiUnreachableIssue.Id():     apiUnreachableIssue,
		apiResponseInvalidIssue.Id(): apiResponseInvalidIssue,
		testSuiteRefusedIssue.Id():   testSuiteRefusedIssue,
		checkoutFailedIssue.Id():     checkoutFailedIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		shellNotFoundIssue.Id():      shellNotFoundIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

func Get(id Id) *Issue {
	return issues[id]
}
