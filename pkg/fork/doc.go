/*
Package fork implements the core pipeline for duplicating a KiCad project.

	+-------------+
	|   Forker    |
	| (Pipeline)  |
	+------+------+
	       |
	  copy | rename | readme
	       v
	+------+------+
	| Destination |
	|    Tree     |
	+-------------+

🎯 Purpose:
- Orchestrates the fork pipeline: detect, copy, rename, rewrite
- Owns stage ordering and the fatal/non-fatal error split
- Narrates progress through the console logger

🔄 Flow:
1. Detects the old project basename from the source tree
2. Copies the source, excluding junk and (optionally) archives
3. Renames entries containing the old basename, deepest first
4. Creates the empty backups directory
5. Reports library assets found at the destination root
6. Rewrites the README's templated sections

📝 Design Philosophy:
The pipeline is strictly linear with no feedback loops. Copy and rename
failures abort the run and leave partial results in place: there is no
rollback, and the destination-exists precondition is the only guard
against rerunning over a partial tree. A README rewrite failure is the
one non-fatal stage, since the forked tree itself is already complete.
*/
package fork
