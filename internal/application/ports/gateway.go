package ports

import "context"

// Claves lógicas bajo las que cada componente serializa su snapshot.
const (
	KeyProducts  = "pos:products"
	KeySales     = "pos:sales"
	KeyCustomers = "pos:customers"
)

// Gateway es el almacén opaco de blobs por nombre lógico. Los componentes del
// motor serializan su estado tras cada mutación exitosa y lo rehidratan una vez
// al arrancar. Load con ok=false significa "clave ausente": se arranca vacío,
// no es un error.
type Gateway interface {
	Save(ctx context.Context, key string, blob []byte) error
	Load(ctx context.Context, key string) (blob []byte, ok bool, err error)
}
