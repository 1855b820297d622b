// Package semidec holds the shared error values of the SEMIDEC
// below-ground biomass and sediment model.
//
// The model itself is split across small packages, leaf first:
//
//   - [constants.Record]: immutable per-cell parameter bundle
//   - [biomass.Profile]: exponential live-biomass distribution with depth
//   - [layer.Layer]: one depth slice with live biomass and three stocks
//   - [engine.Engine]: per-(sub)step fold over a layer stack
//   - [cell.Cell]: a layer stack advanced by StepForward
//
// # Example
//
//	rec := constants.Morris()
//	c, _ := cell.New(rec)
//	c, _ = c.StepForward(1.0, rec.RO, 1.0, 1)
//	for _, row := range c.Rows() {
//	    fmt.Println(row)
//	}
//
// # Thread Safety
//
// Cells and layers are values. StepForward never mutates its receiver, so
// independent cells can be advanced from separate goroutines without locks.
package semidec
