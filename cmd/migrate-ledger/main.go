// Command migrate-ledger inspects and edits the table that records which
// schema migrations have been applied.
package main

import "github.com/aqasim81/migration-ledger/internal/cli"

func main() {
	cli.Execute()
}
