package model

type Group struct {
	ID      string   `bson:"_id,omitempty" json:"id"`
	Name    string   `bson:"name" json:"name"`
	Members []string `bson:"members" json:"members"` // 按集合语义使用，重复元素无意义
}

func (Group) CollectionName() string {
	return "groups"
}
