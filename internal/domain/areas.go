package domain

// Area — район города с координатами центра
type Area struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Zone      string  `json:"zone" yaml:"zone"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// центр Ченнаи — используется, если у маркера нет района
const (
	CityCenterLat = 13.0827
	CityCenterLng = 80.2707
)

// Areas — демо-районы
func Areas() []Area {
	return []Area{
		{ID: "1", Name: "T. Nagar", Zone: "Central", Latitude: 13.0418, Longitude: 80.2341},
		{ID: "2", Name: "Anna Nagar", Zone: "North", Latitude: 13.0850, Longitude: 80.2101},
		{ID: "3", Name: "Velachery", Zone: "South", Latitude: 12.9815, Longitude: 80.2180},
		{ID: "4", Name: "Adyar", Zone: "South", Latitude: 13.0012, Longitude: 80.2565},
		{ID: "5", Name: "Guindy", Zone: "South", Latitude: 13.0067, Longitude: 80.2206},
		{ID: "6", Name: "Egmore", Zone: "Central", Latitude: 13.0732, Longitude: 80.2609},
		{ID: "7", Name: "Mylapore", Zone: "Central", Latitude: 13.0368, Longitude: 80.2676},
		{ID: "8", Name: "Tambaram", Zone: "South", Latitude: 12.9249, Longitude: 80.1000},
		{ID: "9", Name: "Porur", Zone: "West", Latitude: 13.0382, Longitude: 80.1565},
		{ID: "10", Name: "Perungudi", Zone: "South", Latitude: 12.9653, Longitude: 80.2461},
		{ID: "11", Name: "OMR", Zone: "South-East", Latitude: 12.9400, Longitude: 80.2300},
		{ID: "12", Name: "ECR", Zone: "East", Latitude: 12.9800, Longitude: 80.2700},
	}
}

// FindArea ищет район по ID
func FindArea(areas []Area, id string) *Area {
	for i := range areas {
		if areas[i].ID == id {
			return &areas[i]
		}
	}
	return nil
}
