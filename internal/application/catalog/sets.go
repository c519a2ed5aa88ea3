package catalog

import (
	"github.com/jhoicas/pyme-erp/internal/domain/entity"
	"github.com/jhoicas/pyme-erp/internal/domain/query"
	"github.com/shopspring/decimal"
)

func str(name, column string) entity.SetField {
	return entity.SetField{Name: name, Column: column, Type: query.String}
}

func required(f entity.SetField) entity.SetField {
	f.Required = true
	return f
}

func typed(name, column string, t query.FieldType) entity.SetField {
	return entity.SetField{Name: name, Column: column, Type: t}
}

var (
	idField       = str("ID", "id")
	isActiveField = entity.SetField{Name: "isActive", Column: "is_active", Type: query.Bool, Default: true}
)

// Customers clientes.
var Customers = &entity.EntitySet{
	Name: "Customers", Table: "customers", Key: "ID", GeneratedKey: true,
	Fields: []entity.SetField{
		idField,
		required(str("name", "name")),
		str("taxNumber", "tax_number"),
		str("email", "email"),
		str("phone", "phone"),
		str("street", "street"),
		str("city", "city"),
		str("postalCode", "postal_code"),
		str("country_code", "country_code"),
		isActiveField,
	},
}

// Suppliers proveedores.
var Suppliers = &entity.EntitySet{
	Name: "Suppliers", Table: "suppliers", Key: "ID", GeneratedKey: true,
	Fields: []entity.SetField{
		idField,
		required(str("name", "name")),
		str("taxNumber", "tax_number"),
		str("email", "email"),
		str("phone", "phone"),
		str("street", "street"),
		str("city", "city"),
		str("country_code", "country_code"),
		str("currency_code", "currency_code"),
		str("paymentTerms", "payment_terms"),
		isActiveField,
	},
}

// Employees empleados; también son vendedores y compradores de los pedidos.
var Employees = &entity.EntitySet{
	Name: "Employees", Table: "employees", Key: "ID", GeneratedKey: true,
	Fields: []entity.SetField{
		idField,
		required(str("firstName", "first_name")),
		required(str("lastName", "last_name")),
		str("rut", "rut"),
		str("email", "email"),
		str("phone", "phone"),
		str("role", "role"),
		isActiveField,
	},
}

// Contracts contratos laborales.
var Contracts = &entity.EntitySet{
	Name: "Contracts", Table: "contracts", Key: "ID", GeneratedKey: true,
	Fields: []entity.SetField{
		idField,
		required(str("employee_ID", "employee_id")),
		required(typed("startDate", "start_date", query.Time)),
		typed("endDate", "end_date", query.Time),
		typed("baseSalary", "base_salary", query.Decimal),
		str("currency_code", "currency_code"),
		str("afp", "afp"),
		str("healthSystem", "health_system"),
		str("bankName", "bank_name"),
		str("bankAccount", "bank_account"),
		str("accountType", "account_type"),
	},
}

// Payrolls liquidaciones de sueldo. totalLiquid se deriva al guardar.
var Payrolls = &entity.EntitySet{
	Name: "Payrolls", Table: "payrolls", Key: "ID", GeneratedKey: true,
	Fields: []entity.SetField{
		idField,
		required(str("employee_ID", "employee_id")),
		required(str("period", "period")),
		typed("baseSalary", "base_salary", query.Decimal),
		typed("bonuses", "bonuses", query.Decimal),
		typed("overtimeHours", "overtime_hours", query.Decimal),
		typed("overtimeAmount", "overtime_amount", query.Decimal),
		typed("discounts", "discounts", query.Decimal),
		typed("totalLiquid", "total_liquid", query.Decimal),
		{Name: "isPaid", Column: "is_paid", Type: query.Bool, Default: false},
	},
	Derive: derivePayroll,
}

// CompanySettings datos de la empresa (registro único con ID "1").
var CompanySettings = &entity.EntitySet{
	Name: "CompanySettings", Table: "company_settings", Key: "ID",
	Fields: []entity.SetField{
		idField,
		required(str("name", "name")),
		str("businessName", "business_name"),
		str("taxNumber", "tax_number"),
		str("address", "address"),
		str("contactEmail", "contact_email"),
		str("logoUrl", "logo_url"),
		str("currency_code", "currency_code"),
	},
}

// Currencies monedas (clave = código ISO).
var Currencies = &entity.EntitySet{
	Name: "Currencies", Table: "currencies", Key: "code",
	Fields: []entity.SetField{
		required(str("code", "code")),
		required(str("name", "name")),
		str("symbol", "symbol"),
		typed("minorUnit", "minor_unit", query.Int),
	},
}

// DefaultSets conjuntos expuestos en /catalog.
func DefaultSets() []*entity.EntitySet {
	return []*entity.EntitySet{Customers, Suppliers, Employees, Contracts, Payrolls, CompanySettings, Currencies}
}

// derivePayroll totalLiquid = baseSalary + bonuses + overtimeAmount - discounts.
func derivePayroll(rec entity.Record) {
	amount := func(name string) decimal.Decimal {
		if d, ok := rec[name].(decimal.Decimal); ok {
			return d
		}
		return decimal.Zero
	}
	rec["totalLiquid"] = amount("baseSalary").Add(amount("bonuses")).Add(amount("overtimeAmount")).Sub(amount("discounts"))
}
