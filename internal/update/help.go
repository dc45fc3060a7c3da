package update

import "github.com/sandeepkv93/tasktrack/internal/views"

const paletteHelp = `
## Commands

- ` + "`add <title> due:<date> at:HH:MM p:<priority> project:<name> #tag`" + `
- ` + "`add <title> every:weekly/2 on:mon,thu until:<date>`" + `
- ` + "`done <id>`" + `, ` + "`reopen <id>`" + `, ` + "`delete <id>`" + `
- ` + "`view today|upcoming|by_project [project]|by_priority|all`" + `
- ` + "`goal <name> [daily|weekly|monthly]`" + `
- ` + "`check <goal> [date]`" + `
- ` + "`rename <goal> to <new name>`" + `
- ` + "`notify on|off`" + `

Dates are YYYY-MM-DD, today, tomorrow or a weekday name.
`

func (m Model) renderHelp() string {
	h := m.helpModel
	h.ShowAll = true
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: m.CurrentView.Label(),
		Markdown:    paletteHelp,
		HelpView:    h.View(m.helpKeys()),
	})
}
