/*
Package config manages argument resolution and validation for kifork.

	    +--------------+
	    |   RawArgs    |
	    | (CLI inputs) |
	    +------+-------+
	           |
	           v
	    +------+-------+      +-----------+
	    |   Resolve    |<-----| Defaults  |
	    | (validation) |      | (.kifork) |
	    +------+-------+      +-----------+
	           |
	           v
	    +------+-------+
	    |    Config    |
	    | (immutable)  |
	    +--------------+

🎯 Purpose:
- Resolves positional arguments and flags into an immutable Config
- Canonicalizes source and destination paths to absolute form
- Validates preconditions before any filesystem mutation
- Loads optional per-user defaults from JSON, YAML or HCL

🔄 Flow:
1. LoadDefaults reads the optional .kifork defaults file
2. Resolve canonicalizes paths and applies defaults
3. Precondition failures surface as typed errors with exit codes
4. The resulting Config is never mutated again

📝 Design Philosophy:
Every precondition failure is a typed error (UsageError,
SourceNotFoundError, DestExistsError) carrying its CLI exit code, so the
command layer maps errors to exit statuses without string matching. A
run that fails resolution has touched nothing on disk.
*/
package config
