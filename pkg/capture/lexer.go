package capture

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RowLexer tokenizes a single sniffer CSV row.
// Rows look like "1234,7F" or "1234,7F,0,1,1,1,1,1,1,1,1" (STROBE, ACK, BUSY,
// AUTOFEED, INIT, SELECTIN, PAPER_OUT, SELECT, ERROR).
var RowLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r]+`},

	// Hex with explicit prefix must come before Word so "0x7F" is one token
	{Name: "Hex", Pattern: `0[xX][0-9A-Fa-f]+`},
	{Name: "Word", Pattern: `[0-9A-Za-z_]+`},

	{Name: "Comma", Pattern: `,`},
})

// Row is the grammar for one data row. Timestamp and data are captured as
// text and converted afterwards so that range errors count as malformed rows
// rather than grammar failures.
type Row struct {
	Timestamp string   `parser:"@Word"`
	Data      string   `parser:"Comma @( Hex | Word )"`
	Extra     []string `parser:"( Comma ( @( Hex | Word ) )? )*"`
}
