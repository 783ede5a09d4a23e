package config

// Lua schema field names and globals
const (
	luaGlobalBootstrap  = "bootstrap"
	luaFieldRepository  = "repository"
	luaFieldURL         = "url"
	luaFieldBranch      = "branch"
	luaFieldInstaller   = "installer"
	luaFieldInterpreter = "interpreter"
	luaFieldScript      = "script"
	luaFieldArgs        = "args"
	luaFieldPackageMgr  = "package_manager"
	luaFieldCommand     = "command"
	luaFieldTrigger     = "trigger"
	luaFieldInstallArgs = "install_args"
	luaFieldTrack       = "track"
	luaFieldScopes      = "scopes"
	luaFieldRequires    = "requires"
	luaFieldTool        = "tool"
	luaFieldMinVersion  = "min_version"
	luaFieldPackage     = "package"
)

// Environment variables consulted when loading a config.
const (
	EnvConfigPath = "ZERB_BOOTSTRAP_CONFIG"
	EnvBranch     = "ZERB_BOOTSTRAP_BRANCH"
)

// DefaultRepositoryURL is the installer repository used when no config
// file names one.
const DefaultRepositoryURL = "https://github.com/ZebulonRouseFrantzich/zerb-installer.git"

// DefaultBranch is the branch cloned when none is configured.
const DefaultBranch = "main"

// MaxRequirements bounds the requires list.
const MaxRequirements = 64
