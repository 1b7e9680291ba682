package domain

// Records decoded from the upstream services. JSON tags match the upstream
// wire names so consolidated views keep the shape dashboards already consume.

// Product is a catalog item from the products service.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	Category    string  `json:"categoria"`
	Supplier    string  `json:"proveedor"`
	SKU         *string `json:"sku"`
	CreatedAt   string  `json:"fecha_creacion,omitempty"`
	UpdatedAt   string  `json:"fecha_actualizacion,omitempty"`
}

// ProductInfo is the projection of a Product attached to an order line.
type ProductInfo struct {
	Name         string  `json:"nombre"`
	Description  *string `json:"descripcion"`
	Category     string  `json:"categoria"`
	Supplier     string  `json:"proveedor"`
	SKU          *string `json:"sku"`
	CurrentStock int     `json:"stock_actual"`
}

// Info projects p for order-line enrichment.
func (p *Product) Info() *ProductInfo {
	if p == nil {
		return nil
	}
	return &ProductInfo{
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Supplier:     p.Supplier,
		SKU:          p.SKU,
		CurrentStock: p.Stock,
	}
}

// Category is a product category.
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion"`
}

// OrderLine is one line of an order. ProductInfo is filled by enrichment and
// stays null when the product lookup fails.
type OrderLine struct {
	ID          int64        `json:"id"`
	ProductID   int64        `json:"productoId"`
	ProductName string       `json:"nombreProducto"`
	Quantity    int          `json:"cantidad"`
	UnitPrice   float64      `json:"precioUnitario"`
	Subtotal    float64      `json:"subtotal"`
	ProductInfo *ProductInfo `json:"producto_info"`
}

// Order is a customer order from the orders service. The service sends the
// customer as flat id and name fields, not as a nested object.
type Order struct {
	ID              int64       `json:"id"`
	Number          string      `json:"numeroOrden"`
	CustomerID      *int64      `json:"clienteId"`
	CustomerName    *string     `json:"clienteNombre"`
	OrderedAt       string      `json:"fechaOrden,omitempty"`
	DeliveredAt     *string     `json:"fechaEntrega"`
	Status          string      `json:"estado"`
	Total           float64     `json:"total"`
	PaymentMethod   string      `json:"metodoPago,omitempty"`
	ShippingAddress string      `json:"direccionEnvio,omitempty"`
	Lines           []OrderLine `json:"detalles"`
}

// SupplierStatus values used by the suppliers service.
const (
	SupplierActive    = "ACTIVO"
	SupplierInactive  = "INACTIVO"
	SupplierSuspended = "SUSPENDIDO"
)

// Address is a postal address.
type Address struct {
	Street     string `json:"calle,omitempty"`
	City       string `json:"ciudad,omitempty"`
	State      string `json:"estado,omitempty"`
	Country    string `json:"pais,omitempty"`
	PostalCode string `json:"codigoPostal,omitempty"`
}

// Contact is a supplier's contact person.
type Contact struct {
	Name  string `json:"nombre,omitempty"`
	Role  string `json:"cargo,omitempty"`
	Phone string `json:"telefono,omitempty"`
	Email string `json:"email,omitempty"`
}

// PaymentTerms describes how a supplier is paid.
type PaymentTerms struct {
	CreditDays int    `json:"diasCredito"`
	Method     string `json:"metodoPago"`
}

// SupplierStats are counters maintained by the suppliers service.
type SupplierStats struct {
	TotalOrders     int     `json:"totalOrdenes"`
	CompletedOrders int     `json:"ordenesCompletadas"`
	PendingOrders   int     `json:"ordenesPendientes"`
	TotalAmount     float64 `json:"montoTotal"`
}

// Supplier is a record from the suppliers service.
type Supplier struct {
	ID             string        `json:"_id"`
	Name           string        `json:"nombre"`
	TaxID          string        `json:"ruc"`
	Email          string        `json:"email"`
	Phone          string        `json:"telefono,omitempty"`
	Address        *Address      `json:"direccion,omitempty"`
	Contact        *Contact      `json:"contacto,omitempty"`
	Categories     []string      `json:"categorias"`
	Rating         float64       `json:"calificacion"`
	Status         string        `json:"estado"`
	DeliveryStatus string        `json:"estadoEntrega"`
	PaymentTerms   *PaymentTerms `json:"condicionesPago,omitempty"`
	Stats          SupplierStats `json:"estadisticas"`
}

// ApplyDefaults fills the defaults the suppliers service documents for
// fields an older record may lack.
func (s *Supplier) ApplyDefaults() {
	if s.Status == "" {
		s.Status = SupplierActive
	}
	if s.DeliveryStatus == "" {
		s.DeliveryStatus = "SIN_ENTREGAS"
	}
	if s.Categories == nil {
		s.Categories = []string{}
	}
}
