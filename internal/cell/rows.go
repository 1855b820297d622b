package cell

// Headers names the columns of Rows.
func Headers() []string {
	return []string{"top", "bottom", "depth", "biomass", "labile", "refractory", "inorganic"}
}

// Rows flattens the column, one row per layer from the surface down.
func (c Cell) Rows() [][]float64 {
	rows := make([][]float64, len(c.layers))
	for i, l := range c.layers {
		rows[i] = []float64{l.Top, l.Bottom, l.Depth(), l.Biomass, l.Labile, l.Refractory, l.Inorganic}
	}
	return rows
}
