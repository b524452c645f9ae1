// Package memory implementa los repositorios sobre mapas en memoria.
// Es el driver por defecto (STORAGE_DRIVER=memory) y el que usan los tests de aplicación y HTTP.
//
// Orden de locks: primero los mutex por lote (ascendente por ID), después Store.mu.
package memory

import (
	"sort"
	"sync"

	"github.com/jhoicas/crm-farmaceutico/internal/domain/entity"
)

// Store estado compartido de todos los repositorios en memoria.
type Store struct {
	mu         sync.RWMutex
	pharmacies map[string]*entity.Pharmacy
	products   map[string]*entity.Product
	lots       map[string]*entity.StockLot
	customers  map[string]*entity.Customer
	sales      map[string]*entity.Sale

	locksMu  sync.Mutex
	lotLocks map[string]*sync.Mutex
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		pharmacies: make(map[string]*entity.Pharmacy),
		products:   make(map[string]*entity.Product),
		lots:       make(map[string]*entity.StockLot),
		customers:  make(map[string]*entity.Customer),
		sales:      make(map[string]*entity.Sale),
		lotLocks:   make(map[string]*sync.Mutex),
	}
}

// Pharmacies repositorio de farmacias.
func (s *Store) Pharmacies() *PharmacyRepo { return &PharmacyRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Lots repositorio de lotes; AdjustQuantity toma el mutex del lote.
func (s *Store) Lots() *StockLotRepo { return &StockLotRepo{s: s} }

// Customers repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Analytics consultas del dashboard.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// TxRunner unidad atómica de venta con mutex por lote.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

func (s *Store) lotLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	m, ok := s.lotLocks[id]
	if !ok {
		m = &sync.Mutex{}
		s.lotLocks[id] = m
	}
	return m
}

// page aplica limit/offset sobre un slice ya ordenado.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// sortNewestFirst ordena por creación descendente; empates por ID.
func sortNewestFirst[T any](items []T, created func(T) int64, id func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci != cj {
			return ci > cj
		}
		return id(items[i]) < id(items[j])
	})
}
