package cli

// Short messages (one-liners)
const (
	MsgRootShort = "A terminal frontend for chezmoi"
	MsgRootLong  = `chezui runs chezmoi on your behalf and presents what it reports: pending
changes, diffs with statistics, managed files, template data and doctor
checks. It never edits dotfiles itself; every change goes through chezmoi.

Run "chezui tui" for the interactive view.`

	MsgStatusShort     = "Show files whose state differs from the source"
	MsgManagedShort    = "List managed files"
	MsgDiffShort       = "Show what apply would change"
	MsgUpdateShort     = "Pull the source repository and apply it"
	MsgInitShort       = "Create the source directory, optionally from a repository"
	MsgApplyShort      = "Update destination files to match the source"
	MsgAddShort        = "Start managing a file"
	MsgRemoveShort     = "Stop managing a file"
	MsgDataShort       = "Show template data"
	MsgDoctorShort     = "Check the chezmoi installation"
	MsgVerifyShort     = "Exit non-zero if any target differs from the source"
	MsgVersionShort    = "Print chezui and chezmoi versions"
	MsgConfigShort     = "Inspect or create the chezui configuration"
	MsgConfigShow      = "Print the effective configuration"
	MsgConfigInit      = "Write the effective configuration to the user config file"
	MsgTUIShort        = "Open the interactive view"
	MsgCompletionShort = "Generate shell completion script"

	MsgDiffLong = `Show the diff chezmoi would apply, followed by per-file statistics.

With --against FILE the target is compared with FILE directly and chezmoi is
not run. With --export the diff is also written to a patch file in the
export directory.`

	MsgDiffExample = `  chezui diff
  chezui diff ~/.bashrc --stat
  chezui diff --export --copy
  chezui diff ~/.bashrc --against ~/.bashrc.orig`

	MsgAddExample = `  chezui add ~/.gitconfig
  chezui add ~/.config/nvim --template
  chezui add ~/.ssh/config --encrypt`

	MsgInitExample = `  chezui init
  chezui init https://github.com/user/dotfiles.git`

	// Status messages
	MsgCopiedDiff     = "Copied diff to clipboard"
	MsgNothingToCopy  = "No diff to copy"
	MsgVerifyMismatch = "targets differ from source"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagBinary   = "Path to the chezmoi binary"
	MsgFlagTimeout  = "Timeout for each chezmoi invocation"
	MsgFlagFormat   = "Output format: auto, term, text or json"
	MsgFlagDryRun   = "Show what would change without changing anything"
	MsgFlagStat     = "Only show statistics"
	MsgFlagExport   = "Also write the diff to a patch file"
	MsgFlagCopy     = "Copy the diff to the clipboard"
	MsgFlagAgainst  = "Compare the target with this file instead of the source state"
	MsgFlagForce    = "Overwrite files changed since the last apply without prompting"
	MsgFlagDataFmt  = "Template data format: json or yaml"
	MsgFlagNoApply  = "Pull without applying"
	MsgFlagNoWatch  = "Do not refresh when the source directory changes"
	MsgFlagOverride = "Overwrite an existing config file"
)

// MsgUsageTemplate is the cobra usage template. bold and boldUpper come from
// formatting.go.
const MsgUsageTemplate = `{{boldUpper "usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{bold "Aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{bold "Examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{bold "Commands"}}:{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{bold "Flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{bold "Global Flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
