// Package viz renders cells in the terminal.
//
//   - [LayerTable]: lipgloss table of the layer stack
//   - [ProfilePlot]: asciigraph plot of one pool against depth
//   - [HistoryPlot]: asciigraph plot of a per-step series
//   - [ColumnCanvas]: Braille drawing of the column, one band per layer
//
// Colours come from the current [Theme]; see [SetTheme].
package viz
