package repositories

import "essence/internal/models"

// DefaultCatalog returns the seed catalog used when the store holds
// no product list. Callers receive a fresh copy and may mutate it.
func DefaultCatalog() []models.Product {
	products := make([]models.Product, len(defaultProducts))
	copy(products, defaultProducts)
	return products
}

var defaultProducts = []models.Product{
	{
		ID:          "p1",
		Name:        "Perfume Chanel No. 5",
		Price:       8500,
		Image:       "https://images.pexels.com/photos/965990/pexels-photo-965990.jpeg",
		Category:    models.CategoryPerfumes,
		Description: "Icónico perfume femenino con notas florales elegantes",
		InStock:     true,
		Featured:    true,
		Brand:       "Chanel",
	},
	{
		ID:          "p2",
		Name:        "Perfume Dior Sauvage",
		Price:       7200,
		Image:       "https://images.pexels.com/photos/1961792/pexels-photo-1961792.jpeg",
		Category:    models.CategoryPerfumes,
		Description: "Fragancia masculina fresca y sofisticada",
		InStock:     true,
		Featured:    true,
		Brand:       "Dior",
	},
	{
		ID:          "p3",
		Name:        "Perfume Versace Eros",
		Price:       6800,
		Image:       "https://images.pexels.com/photos/1055691/pexels-photo-1055691.jpeg",
		Category:    models.CategoryPerfumes,
		Description: "Perfume masculino seductor y vibrante",
		InStock:     true,
		Brand:       "Versace",
	},
	{
		ID:          "t1",
		Name:        "iPhone 15 Pro Max",
		Price:       85000,
		Image:       "https://images.pexels.com/photos/788946/pexels-photo-788946.jpeg",
		Category:    models.CategoryTecnologia,
		Description: "El último iPhone con cámara profesional y chip A17 Pro",
		InStock:     true,
		Featured:    true,
		Brand:       "Apple",
	},
	{
		ID:          "t2",
		Name:        "Samsung Galaxy S24 Ultra",
		Price:       78000,
		Image:       "https://images.pexels.com/photos/1034649/pexels-photo-1034649.jpeg",
		Category:    models.CategoryTecnologia,
		Description: "Smartphone Android premium con S Pen incluido",
		InStock:     true,
		Featured:    true,
		Brand:       "Samsung",
	},
	{
		ID:          "t3",
		Name:        "MacBook Pro 14\"",
		Price:       125000,
		Image:       "https://images.pexels.com/photos/18105/pexels-photo.jpg",
		Category:    models.CategoryTecnologia,
		Description: "Laptop profesional con chip M3 Pro para máximo rendimiento",
		InStock:     true,
		Brand:       "Apple",
	},
	{
		ID:          "t4",
		Name:        "Smart TV Samsung 55\"",
		Price:       45000,
		Image:       "https://images.pexels.com/photos/1201996/pexels-photo-1201996.jpeg",
		Category:    models.CategoryTecnologia,
		Description: "Televisión 4K UHD con tecnología QLED",
		InStock:     true,
		Brand:       "Samsung",
	},
	{
		ID:          "e1",
		Name:        "Refrigerador LG 18 pies",
		Price:       65000,
		Image:       "https://images.pexels.com/photos/2343468/pexels-photo-2343468.jpeg",
		Category:    models.CategoryElectrodomesticos,
		Description: "Refrigerador de dos puertas con dispensador de agua",
		InStock:     true,
		Featured:    true,
		Brand:       "LG",
	},
	{
		ID:          "e2",
		Name:        "Lavadora Whirlpool 17kg",
		Price:       35000,
		Image:       "https://images.pexels.com/photos/4239091/pexels-photo-4239091.jpeg",
		Category:    models.CategoryElectrodomesticos,
		Description: "Lavadora automática de carga superior",
		InStock:     true,
		Brand:       "Whirlpool",
	},
	{
		ID:          "e3",
		Name:        "Aire Acondicionado Inverter 12000 BTU",
		Price:       28000,
		Image:       "https://images.pexels.com/photos/1638298/pexels-photo-1638298.jpeg",
		Category:    models.CategoryElectrodomesticos,
		Description: "Aire acondicionado inverter eficiente y silencioso",
		InStock:     true,
		Brand:       "Carrier",
	},
	{
		ID:          "r1",
		Name:        "Apple Watch Series 9",
		Price:       32000,
		Image:       "https://images.pexels.com/photos/437037/pexels-photo-437037.jpeg",
		Category:    models.CategoryRelojes,
		Description: "Smartwatch con GPS y monitor de salud avanzado",
		InStock:     true,
		Featured:    true,
		Brand:       "Apple",
	},
	{
		ID:          "r2",
		Name:        "Rolex Submariner",
		Price:       450000,
		Image:       "https://images.pexels.com/photos/190819/pexels-photo-190819.jpeg",
		Category:    models.CategoryRelojes,
		Description: "Reloj de lujo suizo resistente al agua",
		InStock:     true,
		Brand:       "Rolex",
	},
	{
		ID:          "r3",
		Name:        "Casio G-Shock",
		Price:       8500,
		Image:       "https://images.pexels.com/photos/277390/pexels-photo-277390.jpeg",
		Category:    models.CategoryRelojes,
		Description: "Reloj deportivo resistente a golpes",
		InStock:     true,
		Brand:       "Casio",
	},
}
