package repository

import "github.com/okian/warung/internal/domain/model"

// DefaultMenu returns the items the service starts with.
func DefaultMenu() []model.MenuItem {
	return []model.MenuItem{
		{
			ID:          "1",
			Name:        "Mie Ayam Komplit",
			Description: "Mie ayam dengan topping ayam kecap, bakso, dan pangsit",
			Price:       22000,
			ImageID:     "https://img.freepik.com/premium-photo/close-up-food-plate-table_1048944-9962990.jpg",
		},
		{
			ID:          "2",
			Name:        "Es Kopi Susu Gula Aren",
			Description: "Kopi susu dengan gula aren khas, disajikan dingin",
			Price:       18000,
			ImageID:     "https://img.freepik.com/premium-photo/iced-coffee-glasses_1220-3645.jpg",
		},
		{
			ID:          "3",
			Name:        "Ayam Bakar Madu",
			Description: "Ayam bakar dengan bumbu madu manis pedas, disajikan dengan nasi dan lalapan",
			Price:       28000,
			ImageID:     "https://img.freepik.com/premium-photo/plate-food-with-rice-chicken-it_871710-1505.jpg",
		},
		{
			ID:          "4",
			Name:        "Teh Tarik Dingin",
			Description: "Minuman teh tarik khas Malaysia, disajikan dengan es",
			Price:       15000,
			ImageID:     "https://img.freepik.com/premium-photo/ice-coffee-tall-glass-with-cream-poured-ice-cubes-beans-old-rustic-wooden-table-cold-summer-drink-with-tubes-black-background_1029239-2947.jpg",
		},
		{
			ID:          "5",
			Name:        "Nasi Goreng Spesial",
			Description: "Nasi goreng dengan telur, ayam, dan sayuran",
			Price:       25000,
			ImageID:     "https://img.freepik.com/free-photo/fried-rice-with-shrimps_1150-26585.jpg",
		},
		{
			ID:          "6",
			Name:        "Pisang Goreng Coklat Keju",
			Description: "Pisang goreng krispi dengan topping coklat dan keju",
			Price:       17000,
			ImageID:     "https://img.freepik.com/premium-photo/tray-food-with-wooden-board-that-says-chocolate-it_1023064-80850.jpg",
		},
	}
}
