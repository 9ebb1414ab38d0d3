package consult

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterEcho(t *testing.T) {
	t.Run("prefix_echo_drops_first_paragraph", func(t *testing.T) {
		user := "vendo brownies artesanais aqui em indaiatuba"
		reply := "Vendo brownies artesanais aqui em Indaiatuba!\n\nQual seu maior desafio hoje?"

		assert.Equal(t, "Qual seu maior desafio hoje?", filterEcho(reply, user))
	})

	t.Run("prefix_echo_without_second_paragraph_empties", func(t *testing.T) {
		user := "vendo brownies artesanais aqui em indaiatuba"
		reply := "Vendo brownies artesanais aqui em Indaiatuba, que legal!"

		assert.Empty(t, filterEcho(reply, user))
	})

	t.Run("overlapping_sentence_dropped", func(t *testing.T) {
		user := "meu maior desafio é conseguir clientes novos"
		reply := "Seu maior desafio é conseguir clientes novos. Vamos falar de metas?"

		assert.Equal(t, "Vamos falar de metas?", filterEcho(reply, user))
	})

	t.Run("short_user_message_untouched", func(t *testing.T) {
		reply := "Legal! E qual sua meta?"
		assert.Equal(t, reply, filterEcho(reply, "ok"))
	})

	t.Run("non_echo_reply_untouched", func(t *testing.T) {
		user := "trabalho com moda feminina em campinas"
		reply := "Show! Qual sua principal meta para os próximos meses?"

		assert.Equal(t, reply, filterEcho(reply, user))
	})

	t.Run("empty_reply", func(t *testing.T) {
		assert.Empty(t, filterEcho("", "qualquer mensagem do usuário"))
	})
}
