package catalog

// Order groups the products bought together. A product may appear in it more
// than once.
type Order struct {
	ID        string    `json:"id"`
	Products  []Product `json:"products"`
	Delivered bool      `json:"delivered"`
}

type Orders []Order

// Products flattens every order's products, keeping duplicates.
func (orders Orders) Products() []Product {
	out := make([]Product, 0)
	for _, o := range orders {
		out = append(out, o.Products...)
	}
	return out
}

// ProductSet returns each product that appears in any order exactly once, in
// order of first appearance.
func (orders Orders) ProductSet() []Product {
	seen := make(map[Product]struct{})
	out := make([]Product, 0)
	for _, p := range orders.Products() {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func (orders Orders) Delivered() Orders {
	delivered, _ := orders.PartitionDelivered()
	return delivered
}

func (orders Orders) DeliveredProducts() []Product {
	return orders.Delivered().Products()
}

// PartitionDelivered splits orders into delivered and pending, preserving
// their relative order.
func (orders Orders) PartitionDelivered() (delivered, pending Orders) {
	delivered, pending = Orders{}, Orders{}
	for _, o := range orders {
		if o.Delivered {
			delivered = append(delivered, o)
		} else {
			pending = append(pending, o)
		}
	}
	return delivered, pending
}

// CountEachProduct counts how many times each product was ordered.
func (orders Orders) CountEachProduct() map[Product]int {
	counts := make(map[Product]int)
	for _, p := range orders.Products() {
		counts[p]++
	}
	return counts
}

func (o Order) TotalPriceCents() int64 {
	var total int64
	for _, p := range o.Products {
		total += p.PriceCents
	}
	return total
}

// MaxPriceProduct returns the first most expensive product. ok is false for
// an empty order.
func (o Order) MaxPriceProduct() (p Product, ok bool) {
	return o.pickBy(func(a, b Product) bool { return a.PriceCents > b.PriceCents })
}

// MinPriceProduct returns the first cheapest product. ok is false for an
// empty order.
func (o Order) MinPriceProduct() (p Product, ok bool) {
	return o.pickBy(func(a, b Product) bool { return a.PriceCents < b.PriceCents })
}

func (o Order) pickBy(better func(a, b Product) bool) (Product, bool) {
	if len(o.Products) == 0 {
		return Product{}, false
	}
	best := o.Products[0]
	for _, p := range o.Products[1:] {
		if better(p, best) {
			best = p
		}
	}
	return best, true
}
