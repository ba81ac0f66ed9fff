package diff

// EmployeeSchema 员工档案的对比结构
// 银行账户、BPJS、住址按分组递归到叶子字段；
// 教育经历、家庭成员为列表，按原子值整体对比
var EmployeeSchema = Schema{
	{Name: "full_name"},
	{Name: "email"},
	{Name: "phone"},
	{Name: "position"},
	{Name: "department"},
	{Name: "client_id"},
	{Name: "contract_type"},
	{Name: "join_date"},
	{Name: "end_of_contract_date"},
	{Name: "npwp"},
	{Name: "bank_account", Sub: []Field{
		{Name: "bank_name"},
		{Name: "account_number"},
		{Name: "account_holder"},
	}},
	{Name: "bpjs", Sub: []Field{
		{Name: "health_number"},
		{Name: "employment_number"},
	}},
	{Name: "address", Sub: []Field{
		{Name: "street"},
		{Name: "city"},
		{Name: "province"},
		{Name: "postal_code"},
	}},
	{Name: "education"},
	{Name: "family"},
}
