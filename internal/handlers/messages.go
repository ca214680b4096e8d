package handlers

// Response texts shown to the frontend
const (
	msgInternalError = "Hubo un error"

	msgAccountCreated     = "Cuenta creada, revisa tu email para confirmarla"
	msgAccountConfirmed   = "Cuenta confirmada correctamente"
	msgUserExists         = "El usuario ya está registrado"
	msgUserNotRegistered  = "El usuario no está registrado"
	msgUserNotFound       = "Usuario no encontrado"
	msgUserAlreadyConfirm = "El usuario ya está confirmado"
	msgAccountUnconfirmed = "La cuenta no ha sido confirmada, hemos enviado un e-mail de confirmación"
	msgWrongPassword      = "Password incorrecto"
	msgInvalidToken       = "Token no válido"
	msgNewTokenSent       = "Se envió un nuevo token a tu e-mail"
	msgCheckEmail         = "Revisa tu e-mail para instrucciones"
	msgValidToken         = "Token válido, define tu nuevo password"
	msgPasswordUpdated    = "El password se modificó correctamente"

	msgProjectCreated  = "Proyecto creado correctamente"
	msgProjectUpdated  = "Proyecto actualizado"
	msgProjectDeleted  = "Proyecto eliminado"
	msgProjectNotFound = "Proyecto no encontrado"
	msgInvalidID       = "ID no válido"

	msgInvalidState = "Estado de autenticación no válido"
	msgInvalidCode  = "Código de autorización no válido"
	msgUnverified   = "El e-mail de Google no está verificado"
)
