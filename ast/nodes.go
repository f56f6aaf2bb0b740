package ast

// Option sets a header-level configuration parameter.
//
//	option "title" "Personal Ledger of John Doe"
type Option struct {
	Pos   Position
	Name  string
	Value string
}

func (o *Option) Position() Position { return o.Pos }

// Include names another file to be merged into the ledger. The core parser
// does not resolve includes itself; it records the directive for an
// embedding loader to act on.
//
//	include "accounts.beancount"
type Include struct {
	Pos      Position
	Filename string
}

func (i *Include) Position() Position { return i.Pos }

// Plugin names a processing plugin with optional configuration. The core
// parser only records the declaration; it never loads or runs plugin code.
//
//	plugin "beancount.plugins.auto_accounts"
type Plugin struct {
	Pos    Position
	Name   string
	Config string
}

func (p *Plugin) Position() Position { return p.Pos }
