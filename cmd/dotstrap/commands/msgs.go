package commands

// Short messages (one-liners)
const (
	MsgRootShort = "Bootstrap a macOS machine from your dotfiles"
	MsgRootLong  = `dotstrap turns a fresh machine into your machine: it installs the
package manager and your packages, sets up the shell framework and its
plugins, links your dotfiles into place, fetches your theme, and
configures your git identity. Every stage is idempotent, so rerunning
dotstrap is always safe.`

	MsgUpShort        = "Run the full bootstrap pipeline"
	MsgPreflightShort = "Check the developer toolchain and relocate the checkout"
	MsgBrewShort      = "Install the package manager and the declared packages"
	MsgZshShort       = "Install the shell framework and the declared plugins"
	MsgLinkShort      = "Link dotfiles into place, preserving existing files"
	MsgThemeShort     = "Fetch the theme repository and install its assets"
	MsgIdentityShort  = "Configure the machine-local git identity"
	MsgInitShort      = "Write a starter dotstrap.toml"
	MsgGuideShort     = "Show the getting-started guide"
	MsgVersionShort   = "Print version information"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without executing them"
	MsgFlagConfig  = "Path to dotstrap.toml (default: ./dotstrap.toml, then the checkout's)"

	// Status messages
	MsgUpDone          = "Machine bootstrapped. Open a new shell to pick everything up."
	MsgDryRunNotice    = "\nDRY RUN MODE - No changes were made"
	MsgInitExistsError = "%s already exists, not overwriting"
	MsgInitDone        = "Wrote %s. Edit it, commit it to your dotfiles, then run \"dotstrap up\"."
)

// MsgUpExample shows the common invocations.
const MsgUpExample = `  # Bootstrap the whole machine
  dotstrap up

  # Preview without changing anything
  dotstrap up --dry-run

  # Run a single stage
  dotstrap brew`
