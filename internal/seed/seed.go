package seed

import (
	"electromart/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type demoProduct struct {
	name        string
	category    string
	price       float64
	description string
	stock       int
}

var demoProducts = []demoProduct{
	{"ProBook 15", "Laptops", 899.99, "15-inch laptop with 16 GB RAM and a 512 GB SSD.", 12},
	{"UltraSlim 13", "Laptops", 1199.00, "Lightweight 13-inch ultrabook for people on the move.", 8},
	{"Nova X2 Smartphone", "Smartphones", 649.50, "6.4-inch OLED display, 128 GB storage, dual SIM.", 25},
	{"Pixelate Mini", "Smartphones", 399.00, "Compact phone with a surprisingly good camera.", 18},
	{"Glide Wireless Mouse", "Mice", 29.99, "Silent wireless mouse with adjustable DPI.", 60},
	{"Mech TKL Keyboard", "Keyboards", 89.90, "Tenkeyless mechanical keyboard with brown switches.", 35},
	{"BassLine Headphones", "Headphones", 129.00, "Over-ear headphones with active noise cancelling.", 22},
	{"Slate 10 Tablet", "Tablets", 329.00, "10-inch tablet for reading and streaming.", 15},
	{"USB-C Hub 7-in-1", "Accessories", 44.50, "HDMI, card reader and three USB-A ports in one hub.", 40},
}

// Demo loads a small, recognisable data set so a fresh install is browsable
// right away. It is a no-op when any users already exist.
func Demo(users domain.UserRepository, products domain.ProductRepository, log *logrus.Logger) error {
	existing, err := users.ListUsers()
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("Seed: users already present, skipping demo data")
		return nil
	}

	log.Info("Seed: loading demo accounts and products")

	admin, err := createUser(users, "Admin", "admin@electronics.com", "admin123", domain.RoleAdmin, true)
	if err != nil {
		return err
	}
	seller, err := createUser(users, "Demo Seller", "seller@electronics.com", "seller123", domain.RoleSeller, true)
	if err != nil {
		return err
	}
	if _, err := createUser(users, "Demo Buyer", "buyer@electronics.com", "buyer123", domain.RoleBuyer, true); err != nil {
		return err
	}

	for _, p := range demoProducts {
		product := &domain.Product{
			SellerID:    seller.ID,
			Name:        p.name,
			Category:    p.category,
			Price:       p.price,
			Description: p.description,
			Stock:       p.stock,
			Active:      true,
		}
		if _, err := products.CreateProduct(product); err != nil {
			return err
		}
	}

	log.Infof("Seed: created admin %s, seller %s and %d products", admin.Email, seller.Email, len(demoProducts))
	return nil
}

func createUser(users domain.UserRepository, username, email, password string, role domain.Role, approved bool) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return users.CreateUser(&domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Approved:     approved,
	})
}
