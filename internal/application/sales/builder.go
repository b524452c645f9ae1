package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-farmaceutico/internal/application/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/domain"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
	fefo "github.com/jhoicas/crm-farmaceutico/internal/domain/inventory"
	"github.com/jhoicas/crm-farmaceutico/internal/domain/repository"
)

// ItemInput pedido de una línea. LotID vacío = selección FEFO; UnitPrice nil = precio del lote/producto.
type ItemInput struct {
	ProductID string
	LotID     string
	Quantity  int
	UnitPrice *entity.Cents
	Discount  entity.Cents
}

// Builder arma ventas pendientes contra una proyección de solo lectura del ledger.
// No toma locks: lo armado puede quedar desactualizado hasta la confirmación.
type Builder struct {
	products repository.ProductRepository
	ledger   *inventory.LotLedger
}

// NewBuilder construye el armador de ventas.
func NewBuilder(products repository.ProductRepository, lots repository.StockLotRepository, clock inventory.Clock) *Builder {
	return &Builder{products: products, ledger: inventory.NewLotLedger(lots, clock)}
}

// AddItem agrega una o más líneas (una por lote tomado) al borrador y las devuelve.
// Falla con domain.ErrProductNotFound o *domain.InsufficientStockError sin modificar el borrador.
func (b *Builder) AddItem(ctx context.Context, d *Draft, in ItemInput) ([]entity.SaleItem, error) {
	if in.Quantity <= 0 || in.Discount < 0 || (in.UnitPrice != nil && *in.UnitPrice < 0) {
		return nil, domain.ErrInvalidInput
	}
	product, err := b.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("builder: obtener producto: %w", err)
	}
	if product == nil || product.PharmacyID != d.PharmacyID {
		return nil, domain.ErrProductNotFound
	}

	lots, err := b.ledger.Lots(ctx, d.PharmacyID, product.ID)
	if err != nil {
		return nil, err
	}
	projected := project(lots, d.stagedByLot())
	today := b.ledger.Today()

	var allocs []fefo.Allocation
	if in.LotID != "" {
		allocs, err = pinnedAllocation(product.ID, projected, in, today)
	} else {
		allocs, err = fefo.SelectLots(product.ID, projected, in.Quantity, today)
	}
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*entity.StockLot, len(projected))
	for _, l := range projected {
		byID[l.ID] = l
	}
	discounts := splitDiscount(in.Discount, allocs, in.Quantity)
	items := make([]entity.SaleItem, 0, len(allocs))
	for i, a := range allocs {
		items = append(items, entity.SaleItem{
			ID:        uuid.New().String(),
			SaleID:    d.ID,
			ProductID: product.ID,
			LotID:     a.LotID,
			Quantity:  a.Quantity,
			UnitPrice: unitPrice(in.UnitPrice, byID[a.LotID], product),
			Discount:  discounts[i],
		})
	}
	candidate := append(append(make([]entity.SaleItem, 0, len(d.Lines)+len(items)), d.Lines...), items...)
	if _, err := entity.CheckTotals(candidate, d.SaleDiscount); err != nil {
		return nil, err
	}
	d.Lines = candidate
	return items, nil
}

// RemoveItem quita una línea del borrador. Sin efecto sobre el ledger.
func (b *Builder) RemoveItem(d *Draft, lineID string) error {
	for i, l := range d.Lines {
		if l.ID == lineID {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// ComputeTotal totales del borrador en centavos.
func (b *Builder) ComputeTotal(d *Draft) entity.Totals {
	return d.Totals()
}

// project copia los lotes descontando lo ya armado en el mismo borrador.
func project(lots []*entity.StockLot, staged map[string]int) []*entity.StockLot {
	out := make([]*entity.StockLot, 0, len(lots))
	for _, l := range lots {
		cp := *l
		cp.Quantity -= staged[l.ID]
		if cp.Quantity < 0 {
			cp.Quantity = 0
		}
		out = append(out, &cp)
	}
	return out
}

func pinnedAllocation(productID string, lots []*entity.StockLot, in ItemInput, today time.Time) ([]fefo.Allocation, error) {
	for _, l := range lots {
		if l.ID != in.LotID {
			continue
		}
		available := l.Quantity
		if l.IsExpired(today) {
			available = 0
		}
		if available < in.Quantity {
			return nil, &domain.InsufficientStockError{
				ProductID: productID, LotID: l.ID, Requested: in.Quantity, Available: available,
			}
		}
		return []fefo.Allocation{{LotID: l.ID, Quantity: in.Quantity}}, nil
	}
	// El lote no existe o es de otro producto.
	return nil, domain.ErrNotFound
}

func unitPrice(override *entity.Cents, lot *entity.StockLot, product *entity.Product) entity.Cents {
	if override != nil {
		return *override
	}
	if lot != nil && lot.SalePrice > 0 {
		return lot.SalePrice
	}
	return product.Price
}

// splitDiscount reparte el descuento de un ítem entre sus lotes en proporción a la cantidad.
// El resto del redondeo va a la primera línea; la suma siempre es exacta.
func splitDiscount(discount entity.Cents, allocs []fefo.Allocation, total int) []entity.Cents {
	shares := make([]entity.Cents, len(allocs))
	if discount == 0 || total == 0 {
		return shares
	}
	var assigned entity.Cents
	for i, a := range allocs {
		shares[i] = discount * entity.Cents(a.Quantity) / entity.Cents(total)
		assigned += shares[i]
	}
	shares[0] += discount - assigned
	return shares
}
