package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	&StoreScheduler{},
	// Store
	&Supplier{},
	&Product{},
	&Customer{},
	&Sale{},
}
