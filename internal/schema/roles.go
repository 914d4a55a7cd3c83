package schema

import "zapintel/internal"

// Candidate header lists per source kind, collected from every file
// vintage seen so far. Order encodes preference.

var contactsRoles = []RoleSpec{
	{Role: RoleName, Candidates: []string{"First Name", "Nome", "nome", "Name", "name"}, Required: true},
	{Role: RolePhone, Candidates: []string{"Phone 1 - Value", "Telefone", "telefone", "Phone", "phone", "Fone", "fone"}, Required: true},
}

var customersRoles = []RoleSpec{
	{Role: RolePhone, Candidates: []string{"Fone Principal", "Telefone", "telefone", "Fone", "fone", "Celular", "celular", "Phone", "phone"}, Required: true},
	{Role: RoleName, Candidates: []string{"Nome", "nome", "Cliente", "Name"}},
	{Role: RoleNeighborhood, Candidates: []string{"Bairro", "bairro"}},
	{Role: RoleOrderCount, Candidates: []string{"Qtd. Pedidos", "Qtd Pedidos"}},
}

var ordersRoles = []RoleSpec{
	{Role: RolePhone, Candidates: []string{"Telefone", "telefone", "Fone", "fone", "Celular", "celular", "Phone", "phone"}, Required: true},
	{Role: RoleClosingDate, Candidates: []string{"Data Fechamento", "Data Fech.", "Data"}},
	{Role: RoleSubtotal, Candidates: []string{"Total", "total", "Valor Total"}},
	{Role: RoleDeliveryFee, Candidates: []string{"Valor Entrega", "Taxa Entrega", "Entrega"}},
	{Role: RoleNeighborhood, Candidates: []string{"Bairro", "bairro"}},
	{Role: RoleName, Candidates: []string{"Cliente", "cliente", "Nome"}},
	{Role: RoleOrderCode, Candidates: []string{"Código", "Codigo", "Cod.", "Code"}},
	{Role: RoleOrigin, Candidates: []string{"Origem", "origem", "Canal"}},
}

var orderItemsRoles = []RoleSpec{
	{Role: RoleOrderCode, Candidates: []string{"Cod. Ped.", "Cód. Ped.", "Codigo Pedido", "Código Pedido"}, Required: true},
	{Role: RoleProduct, Candidates: []string{"Nome Prod", "Nome Prod.", "Produto"}, Required: true},
	{Role: RoleCategory, Candidates: []string{"Cat. Prod.", "Cat. Prod", "Categoria"}, Required: true},
	{Role: RoleQuantity, Candidates: []string{"Qtd.", "Qtd", "Quantidade"}, Required: true},
	{Role: RoleItemTotal, Candidates: []string{"Valor Tot. Item", "Valor. Tot. Item", "Valor Tot Item", "Valor Total Item", "Valor"}},
	{Role: RoleClosingDate, Candidates: []string{"Data Fec. Ped.", "Data Fechamento", "Data"}},
}

// RolesFor returns the role specs for one source kind.
func RolesFor(kind internal.TableKind) []RoleSpec {
	switch kind {
	case internal.KindContacts:
		return contactsRoles
	case internal.KindCustomers:
		return customersRoles
	case internal.KindOrders:
		return ordersRoles
	case internal.KindOrderItems:
		return orderItemsRoles
	default:
		return nil
	}
}
