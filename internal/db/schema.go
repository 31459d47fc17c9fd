package db

import "database/sql"

// Monetary columns are fixed-point DECIMAL(12,0): whole FCFA, no cents.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS comptes (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	prenom VARCHAR(100) NOT NULL,
	nom VARCHAR(100) NOT NULL,
	email VARCHAR(255) NOT NULL,
	telephone VARCHAR(30) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	role ENUM('user','transporteur','admin') NOT NULL DEFAULT 'user',
	statut VARCHAR(20) NOT NULL DEFAULT 'active',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_compte_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS transporteurs (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	compte_id BIGINT NOT NULL,
	nom_entreprise VARCHAR(255) NOT NULL,
	telephone VARCHAR(30) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_transporteur_compte (compte_id),
	CONSTRAINT fk_transporteur_compte FOREIGN KEY (compte_id) REFERENCES comptes(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS trajets (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	transporteur_id BIGINT NOT NULL,
	ville_depart VARCHAR(100) NOT NULL,
	ville_arrivee VARCHAR(100) NOT NULL,
	date_depart DATETIME NOT NULL,
	prix_unitaire DECIMAL(12,0) NOT NULL,
	nombre_places INT NOT NULL,
	places_disponibles INT NOT NULL,
	type_vehicule ENUM('bus','minibus','car','truck') NOT NULL DEFAULT 'bus',
	statut ENUM('active','cancelled','completed','in_progress','expired') NOT NULL DEFAULT 'active',
	accepte_colis TINYINT(1) NOT NULL DEFAULT 0,
	poids_max_colis DECIMAL(10,2) NULL,
	prix_colis DECIMAL(12,0) NULL,
	point_depart VARCHAR(255) NOT NULL DEFAULT '',
	point_arrivee VARCHAR(255) NOT NULL DEFAULT '',
	conditions TEXT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_trajet_depart (ville_depart, date_depart),
	KEY idx_trajet_statut (statut, date_depart),
	CONSTRAINT fk_trajet_transporteur FOREIGN KEY (transporteur_id) REFERENCES transporteurs(id),
	CONSTRAINT chk_trajet_places CHECK (places_disponibles >= 0 AND places_disponibles <= nombre_places)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS reservations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trajet_id BIGINT NOT NULL,
	compte_id BIGINT NULL,
	reference CHAR(36) NOT NULL,
	prenom_passager VARCHAR(100) NOT NULL,
	nom_passager VARCHAR(100) NOT NULL,
	telephone_passager VARCHAR(30) NOT NULL,
	nombre_places INT NOT NULL,
	statut ENUM('pending','confirmed','cancelled','completed') NOT NULL DEFAULT 'pending',
	option_remboursable TINYINT(1) NOT NULL DEFAULT 0,
	montant_supplement DECIMAL(12,0) NOT NULL DEFAULT 0,
	montant_total DECIMAL(12,0) NOT NULL,
	methode_paiement VARCHAR(30) NOT NULL DEFAULT 'cash',
	date_reservation TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_reservation_reference (reference),
	KEY idx_reservation_trajet (trajet_id),
	KEY idx_reservation_compte (compte_id),
	CONSTRAINT fk_reservation_trajet FOREIGN KEY (trajet_id) REFERENCES trajets(id),
	CONSTRAINT fk_reservation_compte FOREIGN KEY (compte_id) REFERENCES comptes(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

	`CREATE TABLE IF NOT EXISTS paiements (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	reservation_id BIGINT NOT NULL,
	montant DECIMAL(12,0) NOT NULL,
	statut VARCHAR(20) NOT NULL DEFAULT 'paid',
	date_paiement TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_paiement_reservation (reservation_id),
	CONSTRAINT fk_paiement_reservation FOREIGN KEY (reservation_id) REFERENCES reservations(id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
}

// EnsureSchema creates missing tables on startup and backfills columns
// that older deployments predate.
func EnsureSchema(database *sql.DB) error {
	parcelUpgrade := HasTable(database, "trajets") && !HasColumn(database, "trajets", "accepte_colis")

	for _, ddl := range schemaDDL {
		if _, err := database.Exec(ddl); err != nil {
			return err
		}
	}

	if parcelUpgrade {
		alters := []string{
			`ALTER TABLE trajets ADD COLUMN accepte_colis TINYINT(1) NOT NULL DEFAULT 0`,
			`ALTER TABLE trajets ADD COLUMN poids_max_colis DECIMAL(10,2) NULL`,
			`ALTER TABLE trajets ADD COLUMN prix_colis DECIMAL(12,0) NULL`,
		}
		for _, ddl := range alters {
			if _, err := database.Exec(ddl); err != nil {
				return err
			}
		}
	}
	return nil
}
