package entity

import "time"

type Product struct {
	ID                     int       `json:"id"`
	Name                   string    `json:"name"`
	ImageURL               string    `json:"image_url"`
	Description            string    `json:"description"`
	PriceAgency            float64   `json:"price_agency"`
	PriceRetail            float64   `json:"price_retail"`
	PriceRetailWithInstall float64   `json:"price_retail_with_install"`
	Quantity               int       `json:"quantity"`
	CategoryID             *int      `json:"category_id"`
	CategoryName           string    `json:"category_name,omitempty"`
	Features               []string  `json:"features"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// SalePrice is the price customers actually pay; totals and line-item
// snapshots always use this tier, never the list or agency price.
func (p *Product) SalePrice() float64 {
	return p.PriceRetailWithInstall
}

// Savings returns the discount against the list price. Sale price above list
// price is not rejected at write time, so this reports zero in that case.
func (p *Product) Savings() float64 {
	if p.PriceRetail > p.PriceRetailWithInstall {
		return p.PriceRetail - p.PriceRetailWithInstall
	}
	return 0
}

/*
Mysql Table

CREATE TABLE products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	image_url VARCHAR(512) NOT NULL DEFAULT '',
	description TEXT,
	price_agency DOUBLE NOT NULL DEFAULT 0,
	price_retail DOUBLE NOT NULL DEFAULT 0,
	price_retail_with_install DOUBLE NOT NULL DEFAULT 0,
	quantity INT NOT NULL DEFAULT 0,
	category_id INT,
	features JSON,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL
);

*/
