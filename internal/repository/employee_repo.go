package repository

import (
	"context"

	"github.com/senyabanana/recruitment-service/internal/models"
)

// EmployeeRepository - интерфейс для справочника сотрудников и вакансий.
// Сервисы берут отсюда уже проверенную пару (actorId, role),
// дальше авторизация идет только по ней.
type EmployeeRepository interface {
	GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
	CheckJobExists(ctx context.Context, jobID string) (bool, error)
}

// PostgresEmployeeRepository - реализация EmployeeRepository для базы данных.
type PostgresEmployeeRepository struct {
	DB DBTX
}

// NewPostgresEmployeeRepository создает новый экземпляр PostgresEmployeeRepository.
func NewPostgresEmployeeRepository(db DBTX) *PostgresEmployeeRepository {
	return &PostgresEmployeeRepository{DB: db}
}

// GetEmployee возвращает сотрудника или кандидата по ID.
func (r *PostgresEmployeeRepository) GetEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	query := `SELECT id, username, role FROM employee WHERE id = $1`
	var employee models.Employee
	err := r.DB.QueryRow(ctx, query, employeeID).Scan(&employee.ID, &employee.Username, &employee.Role)
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// CheckJobExists проверяет, существует ли вакансия.
func (r *PostgresEmployeeRepository) CheckJobExists(ctx context.Context, jobID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM job WHERE id = $1)`
	err := r.DB.QueryRow(ctx, query, jobID).Scan(&exists)
	return exists, err
}
