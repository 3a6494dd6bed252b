package models

// PetType справочник типов питомцев
type PetType struct {
	ID   uint   `gorm:"column:pet_typeid;primaryKey" json:"pet_typeid"`
	Type string `gorm:"column:type;size:50;not null;uniqueIndex" json:"type"`
}

// TableName задает имя таблицы
func (PetType) TableName() string { return "pet_type" }

// Emotion справочник эмоций питомца
type Emotion struct {
	ID      uint   `gorm:"column:emo_id;primaryKey" json:"emo_id"`
	Emotion string `gorm:"column:emotion;size:50;not null;uniqueIndex" json:"emotion"`
}

// TableName задает имя таблицы
func (Emotion) TableName() string { return "emotions" }

// DefaultEmotionID эмоция, присваиваемая новому питомцу
const DefaultEmotionID uint = 1

// Pet виртуальный питомец
type Pet struct {
	ID        uint    `gorm:"column:pet_id;primaryKey" json:"pet_id"`
	PetTypeID uint    `gorm:"column:pet_typeid;not null" json:"pet_typeid"`
	Name      *string `gorm:"column:pet_name;size:100" json:"pet_name,omitempty"`
	Gender    *string `gorm:"column:gender;size:6" json:"gender,omitempty"`
	EmoID     uint    `gorm:"column:emo_id;default:1" json:"emo_id"`
	WeatherID *uint   `gorm:"column:weather_id" json:"weather_id"`

	PetType *PetType      `gorm:"foreignKey:PetTypeID;references:ID" json:"-"`
	Emotion *Emotion      `gorm:"foreignKey:EmoID;references:ID" json:"-"`
	Weather *WeatherAsset `gorm:"foreignKey:WeatherID;references:ID" json:"-"`
}

// TableName задает имя таблицы
func (Pet) TableName() string { return "pet_data" }

// UserPet связь пользователя и питомца
type UserPet struct {
	UserID string `gorm:"column:user_id;primaryKey;type:char(5)"`
	PetID  uint   `gorm:"column:pet_id;primaryKey"`

	User *User `gorm:"foreignKey:UserID;references:ID"`
	Pet  *Pet  `gorm:"foreignKey:PetID;references:ID"`
}

// TableName задает имя таблицы
func (UserPet) TableName() string { return "user_pet" }

// PetWithType питомец с названием типа для списка питомцев пользователя
type PetWithType struct {
	ID        uint    `gorm:"column:pet_id" json:"pet_id"`
	PetTypeID uint    `gorm:"column:pet_typeid" json:"pet_typeid"`
	Name      *string `gorm:"column:pet_name" json:"pet_name,omitempty"`
	Gender    *string `gorm:"column:gender" json:"gender,omitempty"`
	EmoID     uint    `gorm:"column:emo_id" json:"emo_id"`
	WeatherID *uint   `gorm:"column:weather_id" json:"weather_id"`
	Type      string  `gorm:"column:type" json:"type"`
}

// PetStatus питомец с эмоцией и погодой; оба поля могут отсутствовать
type PetStatus struct {
	ID                 uint    `gorm:"column:pet_id" json:"pet_id"`
	PetTypeID          uint    `gorm:"column:pet_typeid" json:"pet_typeid"`
	Name               *string `gorm:"column:pet_name" json:"pet_name,omitempty"`
	Gender             *string `gorm:"column:gender" json:"gender,omitempty"`
	EmoID              *uint   `gorm:"column:emo_id" json:"emo_id"`
	WeatherID          *uint   `gorm:"column:weather_id" json:"weather_id"`
	Emotion            *string `gorm:"column:emotion" json:"emotion"`
	WeatherDescription *string `gorm:"column:weather_description" json:"weather_description"`
	WeatherMessage     *string `gorm:"column:weather_message" json:"weather_message,omitempty"`
}

// PetAction действие с питомцем
type PetAction string

// Поддерживаемые действия
const (
	PetActionFeed  PetAction = "feed"
	PetActionDrink PetAction = "drink"
)

// PetActionIncrement количество единиц, добавляемое одним действием
const PetActionIncrement = 10

// Metric возвращает временной ряд, в который пишет действие
func (a PetAction) Metric() (Metric, bool) {
	switch a {
	case PetActionFeed:
		return MetricCalories, true
	case PetActionDrink:
		return MetricWater, true
	default:
		return Metric{}, false
	}
}
