package cmd

import (
	"bytes"

	"github.com/mgutz/ansi"
	"github.com/pentafan/pentafan/cmd/global"
	"github.com/tomlazar/table"
)

func createTableConfig() *table.Config {
	return &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	}
}

func renderTable(t table.Table) (string, error) {
	var buf bytes.Buffer
	err := t.WriteTable(&buf, createTableConfig())
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
