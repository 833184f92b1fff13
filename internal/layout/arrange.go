package layout

// Rect is an integer rectangle in cells or pixels.
type Rect struct {
	X, Y, W, H int
}

// Placement is where a tab lands. Tabs in one tab set share a rectangle;
// the first tab is active.
type Placement struct {
	Component string
	Name      string
	Rect      Rect
	Active    bool
	// TabSet indexes the tab set in tree order.
	TabSet int
}

// Split divides total across weights proportionally. Zero weights count as 1.
// The parts always sum to total; rounding remainder goes to the last part.
func Split(total int, weights []float64) []int {
	parts := make([]int, len(weights))
	if len(weights) == 0 || total <= 0 {
		return parts
	}

	var sum float64
	for _, w := range weights {
		sum += effective(w)
	}

	used := 0
	for i, w := range weights[:len(weights)-1] {
		parts[i] = int(float64(total) * effective(w) / sum)
		used += parts[i]
	}
	parts[len(parts)-1] = total - used
	return parts
}

func effective(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

// Weights returns the children's weights.
func (n Node) Weights() []float64 {
	w := make([]float64, len(n.Children))
	for i, c := range n.Children {
		w[i] = c.Weight
	}
	return w
}

// Arrange lays the model out inside r: rows split width, columns split height.
func Arrange(m Model, r Rect) []Placement {
	var out []Placement
	tabsets := 0
	var walk func(Node, Rect)
	walk = func(n Node, r Rect) {
		switch n.Type {
		case NodeRow:
			x := r.X
			for i, w := range Split(r.W, n.Weights()) {
				walk(n.Children[i], Rect{X: x, Y: r.Y, W: w, H: r.H})
				x += w
			}
		case NodeColumn:
			y := r.Y
			for i, h := range Split(r.H, n.Weights()) {
				walk(n.Children[i], Rect{X: r.X, Y: y, W: r.W, H: h})
				y += h
			}
		case NodeTabSet:
			for i, tab := range n.Children {
				out = append(out, Placement{
					Component: tab.Component,
					Name:      tab.Name,
					Rect:      r,
					Active:    i == 0,
					TabSet:    tabsets,
				})
			}
			tabsets++
		}
	}
	walk(m.Layout, r)
	return out
}
