package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema holds the tables read and written by the lift board.  Order,
// item, worker and appointment tables are owned by other services; they
// are created here only so a fresh database can serve the board.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS lifts (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		position INT NOT NULL DEFAULT 0,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_lifts_position (is_active, position)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS repair_orders (
		id CHAR(36) NOT NULL PRIMARY KEY,
		customer_name VARCHAR(255) NOT NULL DEFAULT '',
		vehicle_plate VARCHAR(32) NOT NULL DEFAULT '',
		vehicle_model VARCHAR(128) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		waiting_for_parts TINYINT(1) NOT NULL DEFAULT 0,
		parts_note TEXT NULL,
		parts_expected_start DATETIME NULL,
		parts_expected_end DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_repair_orders_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS workers (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		worker_type VARCHAR(64) NOT NULL DEFAULT ''
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS repair_items (
		id CHAR(36) NOT NULL PRIMARY KEY,
		order_id CHAR(36) NOT NULL,
		repair_type VARCHAR(32) NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		worker_id CHAR(36) NULL,
		KEY idx_repair_items_board (repair_type, status, order_id),
		CONSTRAINT fk_repair_items_order FOREIGN KEY (order_id) REFERENCES repair_orders (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS worker_assignments (
		id CHAR(36) NOT NULL PRIMARY KEY,
		repair_item_id CHAR(36) NOT NULL,
		worker_id CHAR(36) NOT NULL,
		UNIQUE KEY uq_worker_assignments_item_worker (repair_item_id, worker_id),
		CONSTRAINT fk_worker_assignments_item FOREIGN KEY (repair_item_id) REFERENCES repair_items (id) ON DELETE CASCADE,
		CONSTRAINT fk_worker_assignments_worker FOREIGN KEY (worker_id) REFERENCES workers (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS lift_assignments (
		id CHAR(36) NOT NULL PRIMARY KEY,
		repair_order_id CHAR(36) NOT NULL,
		lift_id CHAR(36) NULL,
		scheduled_start DATETIME NULL,
		scheduled_end DATETIME NULL,
		waiting_for_parts TINYINT(1) NOT NULL DEFAULT 0,
		parts_note TEXT NULL,
		parts_expected_start DATETIME NULL,
		parts_expected_end DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_lift_assignments_order (repair_order_id),
		KEY idx_lift_assignments_lift (lift_id),
		CONSTRAINT fk_lift_assignments_order FOREIGN KEY (repair_order_id) REFERENCES repair_orders (id) ON DELETE CASCADE,
		CONSTRAINT fk_lift_assignments_lift FOREIGN KEY (lift_id) REFERENCES lifts (id) ON DELETE SET NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id CHAR(36) NOT NULL PRIMARY KEY,
		customer_name VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(32) NOT NULL DEFAULT '',
		vehicle_plate VARCHAR(32) NOT NULL DEFAULT '',
		appointment_date DATETIME NOT NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'pending',
		note TEXT NULL,
		KEY idx_appointments_queue (status, appointment_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing table.  Existing tables are left as they
// are; column changes are applied by the owning services.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
