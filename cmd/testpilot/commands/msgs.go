package commands

// Short messages (one-liners)
const (
	MsgRootShort       = "A bridge between your editor and your test runner"
	MsgSetupShort      = "Create a starter configuration file"
	MsgListShort       = "Show the configured action sets and their rules"
	MsgDocsShort       = "Show the usage guide"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDir     = "Directory holding the configuration file and request pipe (default: working directory)"
	MsgFlagNoWatch = "Do not reload the configuration when it changes on disk"
)

// Long messages
const (
	MsgRootLong = `testpilot runs your tests while you stay in your editor. It listens on a
named pipe for small JSON requests ("test this file", "test this line",
"repeat the last test"), matches each request against the rules of the
active action set, and runs the winning rule's command in the terminal
testpilot was started in.

Run testpilot without arguments to start listening. Requests arrive as
one JSON object per line, for example:

  {"filename": "parser_test.go"}
  {"filename": "parser_test.go", "line": 42}
  {"operation": "repeatLastTest"}
  {"actionSet": "integration"}`

	MsgSetupLong = `Setup writes a commented starter configuration (.testpilot.toml) into
the current directory. YAML and JSON configurations are also understood;
see "testpilot docs" for the formats.`

	MsgListLong = `List prints every configured action set with its rules' match
specifications and command templates, in precedence order.`
)
