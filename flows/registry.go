package flows

// Registry resuelve la variante de flow de cada tenant por slug. Los tenants
// sin variante registrada usan el flow de bienvenida.
type Registry struct {
	variants map[string]Flow
	fallback Flow
}

// NewRegistry construye el registro con las variantes conocidas.
func NewRegistry(deps Deps) *Registry {
	welcome := NewWelcomeFlow(deps)
	return &Registry{
		variants: map[string]Flow{
			"crunchypaws": welcome,
			"dkape":       NewMenuFlow(deps),
		},
		fallback: welcome,
	}
}

// ForTenant retorna el flow del slug, o el fallback si no hay variante.
func (r *Registry) ForTenant(slug string) Flow {
	if flow, ok := r.variants[slug]; ok {
		return flow
	}
	return r.fallback
}
