package tables

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Ingredient struct {
	bun.BaseModel   `bun:"table:ingredients,alias:i"`
	Id              uuid.UUID       `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name            string          `json:"name" bun:"name,unique,notnull"`
	Cost            decimal.Decimal `json:"cost" bun:"cost,type:numeric(10,2),notnull"` // per 100 g
	IsMeat          bool            `json:"is_meat" bun:"is_meat,notnull,default:false"`
	IsAnimalProduct bool            `json:"is_animal_product" bun:"is_animal_product,notnull,default:false"`
}

type Pizza struct {
	bun.BaseModel `bun:"table:pizzas,alias:p"`
	Id            uuid.UUID          `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name          string             `json:"name" bun:"name,unique,notnull"`
	IsActive      bool               `json:"is_active" bun:"is_active,notnull,default:true"`
	Recipe        []*PizzaIngredient `json:"recipe,omitempty" bun:"rel:has-many,join:id=pizza_id"`
}

type PizzaIngredient struct {
	bun.BaseModel `bun:"table:pizza_ingredients,alias:pi"`
	PizzaId       uuid.UUID   `json:"pizza_id" bun:"pizza_id,pk,type:uuid"`
	IngredientId  uuid.UUID   `json:"ingredient_id" bun:"ingredient_id,pk,type:uuid"`
	Grams         int         `json:"grams" bun:"grams,notnull"`
	Ingredient    *Ingredient `json:"ingredient,omitempty" bun:"rel:belongs-to,join:ingredient_id=id"`
}

const (
	CategoryDrink = "drink"
	CategorySnack = "snack"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:pr"`
	Id            uuid.UUID       `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name          string          `json:"name" bun:"name,unique,notnull"`
	Category      string          `json:"category" bun:"category,notnull"`
	Cost          decimal.Decimal `json:"cost" bun:"cost,type:numeric(10,2),notnull"`
	IsActive      bool            `json:"is_active" bun:"is_active,notnull,default:true"`
}
