package loyalty

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-pro/internal/application/ports"
	"github.com/jhoicas/pos-pro/internal/domain"
	"github.com/jhoicas/pos-pro/internal/domain/entity"
	"github.com/jhoicas/pos-pro/pkg/logger"
)

// defaultPointsPerDiscount se aplica cuando la configuración trae un valor no
// positivo (100 puntos por unidad de descuento, igual que el default de config).
const defaultPointsPerDiscount = 100

// Program reglas del programa de fidelización.
type Program struct {
	PointsPerUnit     decimal.Decimal // puntos acumulados por unidad monetaria
	PointsPerDiscount int64           // puntos necesarios por cada unidad de descuento
	DiscountValue     decimal.Decimal // descuento otorgado por cada PointsPerDiscount puntos
}

// Manager es el dueño de las cuentas de fidelización. Los puntos se acumulan
// solo desde ventas confirmadas (vía Accrue, invocado por el libro de ventas)
// y los canjes nunca dejan el saldo negativo.
type Manager struct {
	mu      sync.RWMutex
	byID    map[string]*entity.Customer
	order   []string
	program Program

	gateway ports.Gateway
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

// Deps dependencias inyectables del manager.
type Deps struct {
	Program Program
	Gateway ports.Gateway
	Log     *logger.Logger
	Now     func() time.Time
	NewID   func() string
}

// New construye el manager de fidelización.
// Un PointsPerDiscount no positivo (configuración ausente o malformada) se
// normaliza al valor por defecto: Redeem divide por este campo y nunca debe
// llegar a un divisor cero.
func New(d Deps) *Manager {
	if d.Program.PointsPerDiscount <= 0 {
		d.Program.PointsPerDiscount = defaultPointsPerDiscount
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &Manager{
		byID:    make(map[string]*entity.Customer),
		program: d.Program,
		gateway: d.Gateway,
		log:     d.Log,
		now:     d.Now,
		newID:   d.NewID,
	}
}

// AddInput datos para registrar un cliente.
type AddInput struct {
	Name  string
	Email string
	Phone string
}

// Add registra un cliente con saldo de puntos en cero.
// Falla con ErrDuplicate si el teléfono o el email ya están registrados.
func (m *Manager) Add(in AddInput) (*entity.Customer, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		c := m.byID[id]
		if in.Phone != "" && c.Phone == in.Phone {
			return nil, domain.ErrDuplicate
		}
		if in.Email != "" && c.Email == in.Email {
			return nil, domain.ErrDuplicate
		}
	}

	now := m.now()
	c := &entity.Customer{
		ID:            m.newID(),
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Points:        0,
		LifetimeSpend: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.byID[c.ID] = c
	m.order = append(m.order, c.ID)
	m.persistLocked()

	out := *c
	return &out, nil
}

// Exists indica si el cliente está registrado.
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byID[id]
	return ok
}

// Get devuelve una copia del cliente.
func (m *Manager) Get(id string) (*entity.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *c
	return &out, nil
}

// List devuelve todos los clientes en orden de registro.
func (m *Manager) List() []entity.Customer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// FindByPhone busca un cliente por teléfono exacto.
func (m *Manager) FindByPhone(phone string) (*entity.Customer, error) {
	return m.findBy(func(c *entity.Customer) bool { return phone != "" && c.Phone == phone })
}

// FindByEmail busca un cliente por email exacto.
func (m *Manager) FindByEmail(email string) (*entity.Customer, error) {
	return m.findBy(func(c *entity.Customer) bool { return email != "" && c.Email == email })
}

func (m *Manager) findBy(match func(*entity.Customer) bool) (*entity.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, id := range m.order {
		if c := m.byID[id]; match(c) {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Accrue acumula floor(total × PointsPerUnit) puntos al cliente y actualiza su
// gasto acumulado. Devuelve los puntos otorgados para que la venta los registre
// (el reembolso revierte exactamente esa cantidad).
func (m *Manager) Accrue(customerID string, total decimal.Decimal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[customerID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	points := total.Mul(m.program.PointsPerUnit).Floor().IntPart()
	if points < 0 {
		points = 0
	}
	c.Points += points
	c.LifetimeSpend = c.LifetimeSpend.Add(total)
	c.Visits++
	c.UpdatedAt = m.now()
	m.persistLocked()
	return points, nil
}

// Reverse revierte una acumulación previa (reembolso de la venta que la originó).
// Si el cliente canjeó puntos entre la venta y el reembolso, el saldo se recorta
// en cero para mantener el invariante de no-negatividad.
func (m *Manager) Reverse(customerID string, points int64, total decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[customerID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Points -= points
	if c.Points < 0 {
		m.log.Warn().Str("customer_id", customerID).Int64("points", points).
			Msg("loyalty: reversa recortada en cero por canje intermedio")
		c.Points = 0
	}
	c.LifetimeSpend = c.LifetimeSpend.Sub(total)
	if c.LifetimeSpend.IsNegative() {
		c.LifetimeSpend = decimal.Zero
	}
	c.UpdatedAt = m.now()
	m.persistLocked()
	return nil
}

// Redeem canjea puntos por un descuento. Falla con ErrInsufficientPoints si el
// saldo no alcanza; nunca deja el saldo negativo.
func (m *Manager) Redeem(customerID string, points int64) (decimal.Decimal, error) {
	if points <= 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byID[customerID]
	if !ok {
		return decimal.Zero, domain.ErrNotFound
	}
	if c.Points < points {
		return decimal.Zero, domain.ErrInsufficientPoints
	}
	c.Points -= points
	c.UpdatedAt = m.now()
	m.persistLocked()

	discount := decimal.NewFromInt(points).
		Div(decimal.NewFromInt(m.program.PointsPerDiscount)).
		Mul(m.program.DiscountValue).Round(2)
	return discount, nil
}

// Snapshot devuelve una copia de todas las cuentas en orden de registro.
func (m *Manager) Snapshot() []entity.Customer {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() []entity.Customer {
	out := make([]entity.Customer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.byID[id])
	}
	return out
}

// Rehydrate carga el snapshot persistido. Clave ausente = sin clientes.
func (m *Manager) Rehydrate(ctx context.Context) error {
	if m.gateway == nil {
		return nil
	}
	blob, ok, err := m.gateway.Load(ctx, ports.KeyCustomers)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	var customers []entity.Customer
	if err := json.Unmarshal(blob, &customers); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID = make(map[string]*entity.Customer, len(customers))
	m.order = m.order[:0]
	for i := range customers {
		c := customers[i]
		m.byID[c.ID] = &c
		m.order = append(m.order, c.ID)
	}
	return nil
}

func (m *Manager) persistLocked() {
	if m.gateway == nil {
		return
	}
	blob, err := json.Marshal(m.snapshotLocked())
	if err != nil {
		m.log.Error().Err(err).Msg("loyalty: serializar snapshot")
		return
	}
	if err := m.gateway.Save(context.Background(), ports.KeyCustomers, blob); err != nil {
		m.log.Error().Err(err).Str("key", ports.KeyCustomers).Msg("loyalty: persistir snapshot")
	}
}
